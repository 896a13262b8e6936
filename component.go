package boundary

import "context"

// Component renders content from typed props. Implementations report
// failures by returning an error; a panic during Render is treated the same
// way by the surrounding boundary.
type Component[P any] interface {
	Render(ctx context.Context, props P) (string, error)
}

// Func adapts a function to the Component interface.
//
// Example:
//
//	card := boundary.Func[User](func(ctx context.Context, u User) (string, error) {
//	    return "hello, " + u.Name, nil
//	})
type Func[P any] func(ctx context.Context, props P) (string, error)

// Render implements Component.
func (f Func[P]) Render(ctx context.Context, props P) (string, error) {
	return f(ctx, props)
}
