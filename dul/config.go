package dul

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var configValidate = validator.New()

// Config carries the association-start-time configuration recognized by
// spec.md §6: the options an AE applies when evaluating a proposed
// association and negotiating its presentation contexts.
type Config struct {
	// LocalAETitle identifies this AE on the wire, ASCII, <=16 bytes.
	LocalAETitle string `validate:"required,max=16,ascii"`
	// SupportedAbstractSyntaxes is the set of abstract syntax UIDs this AE
	// will accept a presentation context for.
	SupportedAbstractSyntaxes []string `validate:"required,min=1,dive,required"`
	// SupportedTransferSyntaxes is this AE's preference order, most
	// preferred first — the order context negotiation walks per spec.md
	// §4.7.
	SupportedTransferSyntaxes []string `validate:"required,min=1,dive,required"`
	// LocalMaxPDULength is this AE's receive limit; 0 means unlimited.
	LocalMaxPDULength uint32
	// LocalImplementationClassUID identifies this implementation in the
	// User Information item.
	LocalImplementationClassUID string `validate:"required"`
	// LocalImplementationVersionName is optional, ASCII, <=16 bytes.
	LocalImplementationVersionName string `validate:"omitempty,max=16,ascii"`
	// AssociationAcceptPredicate, if set, is consulted before negotiating
	// contexts; returning false rejects the association (permanent,
	// service-user, calling-AE-title-not-recognized).
	AssociationAcceptPredicate func(callingAE, calledAE string) bool
}

// Validate reports whether cfg satisfies the constraints spec.md §6 places
// on AE-level configuration.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("dul: invalid config: %w", err)
	}
	return nil
}

func (c Config) supportsAbstractSyntax(uid string) bool {
	for _, s := range c.SupportedAbstractSyntaxes {
		if s == uid {
			return true
		}
	}
	return false
}
