package service

// Actor is the authenticated caller of a business operation, extracted
// from the session token by the API layer. A zero ID means no actor
// context is available.
type Actor struct {
	ID   int64
	Role string
}

func (a Actor) Authenticated() bool {
	return a.ID != 0
}
