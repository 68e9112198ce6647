// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "fmt"

// Kind classifies a domain error per spec §7.
type Kind string

const (
	KindValidation Kind = "ValidationError"
	KindReference  Kind = "ReferenceError"
	KindSolver     Kind = "SolverError"
	KindCheck      Kind = "CheckError"
	KindCancelled  Kind = "Cancelled"
)

// Error is the domain error type shared by model, assemble, solve and check.
// Kernels and the Model return these instead of panicking so the assembler
// and UI can distinguish "skip this element" from "abort everything".
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

func newErr(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// ValidationErrorf builds a KindValidation error.
func ValidationErrorf(format string, args ...interface{}) error { return newErr(KindValidation, format, args...) }

// ReferenceErrorf builds a KindReference error.
func ReferenceErrorf(format string, args ...interface{}) error { return newErr(KindReference, format, args...) }

// SolverErrorf builds a KindSolver error.
func SolverErrorf(format string, args ...interface{}) error { return newErr(KindSolver, format, args...) }

// CheckErrorf builds a KindCheck error.
func CheckErrorf(format string, args ...interface{}) error { return newErr(KindCheck, format, args...) }

// CancelledErrorf builds a KindCancelled error.
func CancelledErrorf(format string, args ...interface{}) error { return newErr(KindCancelled, format, args...) }

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, k Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}
