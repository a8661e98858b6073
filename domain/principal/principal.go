// Package principal carries the verified identity of a single request.
//
// A Principal is constructed exactly once, immediately after token
// verification, and passed explicitly through every call chain. There
// is no ambient or global auth state: any task operation that does not
// receive an owner id derived from a Principal is a defect by
// construction.
package principal

// Principal is the authenticated identity making a request. The ID is
// an opaque identifier asserted by the external identity provider; this
// service never creates or mutates principals.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}
