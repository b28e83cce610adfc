package notes

// Outcome is the uniform result envelope for every service operation.
// Failures are values, never errors: callers branch on Succeeded and show
// Message, and no store error detail crosses the service boundary.
type Outcome[T any] struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
	Data      T      `json:"data"`
}

func success[T any](message string, data T) Outcome[T] {
	return Outcome[T]{Succeeded: true, Message: message, Data: data}
}

func failure[T any](message string) Outcome[T] {
	var zero T
	return Outcome[T]{Succeeded: false, Message: message, Data: zero}
}
