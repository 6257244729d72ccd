package session

// Decision is the route guard's one-shot verdict for a session-bound page.
type Decision int

const (
	// DecisionWait means the stored snapshot has not been read yet; render
	// a neutral placeholder rather than a logged-out view.
	DecisionWait Decision = iota
	// DecisionRedirect means the visitor is confirmed logged out and should
	// be sent to the login surface.
	DecisionRedirect
	// DecisionRender means a user is present and the page may render.
	DecisionRender
)

func (d Decision) String() string {
	switch d {
	case DecisionWait:
		return "wait"
	case DecisionRedirect:
		return "redirect"
	default:
		return "render"
	}
}

// Guard makes the redirect decision for a protected page. It is evaluated
// once per navigation; there are no retry semantics.
func Guard(store *Store) Decision {
	if store.Loading() {
		return DecisionWait
	}
	if store.Current() == nil {
		return DecisionRedirect
	}
	return DecisionRender
}
