package service

import "context"

// Dispatcher принимает отложенные записи. Реализация — worker.Queue.
// Submit не блокирует вызывающего; false означает, что запись отброшена.
// Flush ждёт записей, поставленных до вызова: чтение снапшота после Flush видит их.
type Dispatcher interface {
	Submit(name string, fn func(ctx context.Context) error) bool
	Flush(ctx context.Context) error
}
