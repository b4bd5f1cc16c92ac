package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/talekeep/talekeep-backend/internal/pkg/apperr"
)

func TestTokenService_MintParseRoundtrip(t *testing.T) {
	svc := NewTokenService()
	userID := uuid.New()

	token, err := svc.Mint(userID, time.Hour)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	got, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != userID {
		t.Fatalf("expected %s, got %s", userID, got)
	}
}

func TestTokenService_RejectsGarbageAndExpired(t *testing.T) {
	svc := NewTokenService()

	if _, err := svc.Parse("not-a-token"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected Unauthorized for garbage, got %v", err)
	}

	expired, err := svc.Mint(uuid.New(), -time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := svc.Parse(expired); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected Unauthorized for expired token, got %v", err)
	}
}

func TestTokenService_RejectsNilSubject(t *testing.T) {
	svc := NewTokenService()
	if _, err := svc.Mint(uuid.Nil, time.Hour); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}
