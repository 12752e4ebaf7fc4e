package models

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	// DefaultPageSize размер страницы по умолчанию для списков
	DefaultPageSize = 10

	// WorkerQueueSize размер очереди воркера экспорта
	WorkerQueueSize = 128

	// RateLimitRequests количество запросов в окне
	RateLimitRequests = 30

	// RateLimitWindow окно ограничения частоты запросов
	RateLimitWindow = 60 // 1 минута в секундах
)
