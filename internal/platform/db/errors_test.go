package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	if !IsUniqueViolation(dup, "") {
		t.Error("expected match with empty constraint")
	}
	if !IsUniqueViolation(dup, "users_email_key") {
		t.Error("expected match with named constraint")
	}
	if IsUniqueViolation(dup, "other_key") {
		t.Error("expected no match for a different constraint")
	}
	if IsUniqueViolation(fmt.Errorf("wrapped: %w", dup), "users_email_key") != true {
		t.Error("expected match through wrapping")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Error("foreign key violation must not match")
	}
	if IsUniqueViolation(errors.New("plain"), "") {
		t.Error("plain error must not match")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(pgx.ErrNoRows) {
		t.Error("expected ErrNoRows to match")
	}
	if !IsNotFound(fmt.Errorf("query appointment: %w", pgx.ErrNoRows)) {
		t.Error("expected wrapped ErrNoRows to match")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("plain error must not match")
	}
}
