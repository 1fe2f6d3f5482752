package auth

import "fmt"

// Access policy decisions are pure functions over an already-resolved
// Principal: no I/O and no shared state, so every rule is trivially
// testable. Transport mapping (401 vs 403) is the caller's concern.

// RequireRole allows principals whose role is in the allowed set.
func RequireRole(p *Principal, allowed ...Role) error {
	if p == nil {
		return fmt.Errorf("%w: no principal", ErrForbidden)
	}
	if roleIn(p.Role, allowed) {
		return nil
	}
	return fmt.Errorf("%w: role %s is not permitted", ErrForbidden, p.Role)
}

// RequireOwnerOrRole allows the resource owner regardless of role, and any
// principal whose role is in the allowed set regardless of ownership. Every
// owner-guarded mutation across listings, payments and reviews goes through
// this one gate so no resource type can forget the admin bypass.
func RequireOwnerOrRole(p *Principal, ownerID int64, allowed ...Role) error {
	if p == nil {
		return fmt.Errorf("%w: no principal", ErrForbidden)
	}
	if p.ID == ownerID {
		return nil
	}
	if roleIn(p.Role, allowed) {
		return nil
	}
	return fmt.Errorf("%w: not the owner", ErrForbidden)
}

// RequireActiveVerified is a stricter, composable gate for sensitive
// operations. Verification is only demanded when requireVerified is set.
func RequireActiveVerified(p *Principal, requireVerified bool) error {
	if p == nil {
		return fmt.Errorf("%w: no principal", ErrForbidden)
	}
	if !p.IsActive {
		return fmt.Errorf("%w: account is deactivated", ErrForbidden)
	}
	if requireVerified && !p.IsVerified {
		return fmt.Errorf("%w: account is not verified", ErrForbidden)
	}
	return nil
}

func roleIn(role Role, set []Role) bool {
	for _, candidate := range set {
		if role == candidate {
			return true
		}
	}
	return false
}
