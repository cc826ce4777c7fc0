package payment

import "context"

// Verification is the shape the enrollment layer consumes. Transport,
// signing and endpoint details stay behind the Verifier.
type Verification struct {
	Success    bool
	Status     string
	CourseID   *uint
	StudentID  *uint
	PayerEmail string
}

// Verifier confirms a payment transaction by its provider reference.
type Verifier interface {
	Verify(ctx context.Context, reference string) (*Verification, error)
}
