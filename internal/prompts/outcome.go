package prompts

// Status is how an interactive step ended.
type Status int

const (
	// Completed means the step produced a value.
	Completed Status = iota
	// WentBack means the user chose "← Back" and the caller should return
	// to its previous step.
	WentBack
	// Aborted means the user cancelled. It is not an error.
	Aborted
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case WentBack:
		return "went-back"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Outcome is the result of an interactive step.
type Outcome[T any] struct {
	Status Status
	Value  T
}

func Complete[T any](v T) Outcome[T] {
	return Outcome[T]{Status: Completed, Value: v}
}

func Back[T any]() Outcome[T] {
	return Outcome[T]{Status: WentBack}
}

func Abort[T any]() Outcome[T] {
	return Outcome[T]{Status: Aborted}
}

// Done reports whether the step completed.
func (o Outcome[T]) Done() bool {
	return o.Status == Completed
}

// Recast carries a non-completed status over to an outcome of another type.
func Recast[T, U any](o Outcome[T]) Outcome[U] {
	return Outcome[U]{Status: o.Status}
}
