package core

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable error category. Codes never change once
// published; callers may switch on them for reporting and caching decisions.
type Code string

const (
	// CodeInvalidParameter marks a static parameter outside its documented range.
	CodeInvalidParameter Code = "invalid_parameter"
	// CodeMissingRecipe marks a recipe section absent from the parameter tree.
	CodeMissingRecipe Code = "missing_recipe"
	// CodeInvalidRecipeType marks a recipe section of an unexpected shape.
	CodeInvalidRecipeType Code = "invalid_recipe_type"
	// CodeSynthesis marks an internal invariant violation during rendering.
	CodeSynthesis Code = "synthesis"
)

// Sentinels for errors.Is matching across package boundaries.
var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrMissingRecipe     = errors.New("missing recipe")
	ErrInvalidRecipeType = errors.New("invalid recipe type")
	ErrSynthesis         = errors.New("synthesis failure")
)

// ParamError reports a static parameter outside its documented range.
// Validation happens eagerly, before any sample is produced, so a ParamError
// guarantees that no partial audio was generated.
type ParamError struct {
	Name    string
	Message string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Name, e.Message)
}

// Code returns the stable machine code for this error.
func (e *ParamError) Code() Code { return CodeInvalidParameter }

// Is matches the ErrInvalidParameter sentinel.
func (e *ParamError) Is(target error) bool { return target == ErrInvalidParameter }

// Paramf builds a ParamError with a formatted message.
func Paramf(name, format string, args ...any) error {
	return &ParamError{Name: name, Message: fmt.Sprintf(format, args...)}
}

// SynthError reports an internal invariant violation. These indicate bugs,
// not expected conditions, and are never produced for out-of-range input.
type SynthError struct {
	Message string
}

func (e *SynthError) Error() string {
	return "synthesis failure: " + e.Message
}

// Code returns the stable machine code for this error.
func (e *SynthError) Code() Code { return CodeSynthesis }

// Is matches the ErrSynthesis sentinel.
func (e *SynthError) Is(target error) bool { return target == ErrSynthesis }

// Synthf builds a SynthError with a formatted message.
func Synthf(format string, args ...any) error {
	return &SynthError{Message: fmt.Sprintf(format, args...)}
}

// RecipeError reports an upstream parameter-tree shape mismatch: either a
// required section is missing or a section has the wrong type.
type RecipeError struct {
	code    Code
	Section string
	Message string
}

func (e *RecipeError) Error() string {
	return fmt.Sprintf("%s %q: %s", string(e.code), e.Section, e.Message)
}

// Code returns the stable machine code for this error.
func (e *RecipeError) Code() Code { return e.code }

// Is matches the sentinel corresponding to the recipe error kind.
func (e *RecipeError) Is(target error) bool {
	switch e.code {
	case CodeMissingRecipe:
		return target == ErrMissingRecipe
	case CodeInvalidRecipeType:
		return target == ErrInvalidRecipeType
	default:
		return false
	}
}

// MissingRecipef builds a missing-recipe error for a named section.
func MissingRecipef(section, format string, args ...any) error {
	return &RecipeError{
		code:    CodeMissingRecipe,
		Section: section,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvalidRecipeTypef builds an invalid-recipe-type error for a named section.
func InvalidRecipeTypef(section, format string, args ...any) error {
	return &RecipeError{
		code:    CodeInvalidRecipeType,
		Section: section,
		Message: fmt.Sprintf(format, args...),
	}
}

// coder is implemented by all typed errors in this package.
type coder interface{ Code() Code }

// ErrorCode extracts the stable machine code from err, unwrapping as needed.
func ErrorCode(err error) (Code, bool) {
	var c coder
	if errors.As(err, &c) {
		return c.Code(), true
	}

	return "", false
}
