package orchestrators

import (
	"context"
	"errors"
	"testing"

	"dugout/internal/adapters/identity"
	"dugout/internal/domain/access"
	domainMember "dugout/internal/domain/member"
)

func TestExecuteEnsureMember_CreatesOnFirstLogin(t *testing.T) {
	store := newMockMemberStore()

	m, err := ExecuteEnsureMember(context.Background(), EnsureMemberInput{UserID: "U1", DisplayName: "  山田  "}, EnsureMemberDeps{MemberStore: store, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "山田" || !m.IsActive || !m.CreatedAt.Equal(testNow) {
		t.Errorf("unexpected member: %+v", m)
	}
	if store.createCalls != 1 {
		t.Errorf("expected one create, got %d", store.createCalls)
	}
}

func TestExecuteEnsureMember_KeepsExistingName(t *testing.T) {
	store := newMockMemberStore()
	store.members["U1"] = domainMember.Member{ID: "U1", Name: "渋田 #21号", IsActive: true}

	m, err := ExecuteEnsureMember(context.Background(), EnsureMemberInput{UserID: "U1", DisplayName: "LINE名"}, EnsureMemberDeps{MemberStore: store, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "渋田 #21号" || store.createCalls != 0 {
		t.Errorf("existing member must not be rewritten: %+v, creates=%d", m, store.createCalls)
	}
}

func TestExecuteEnsureMember_ParallelCreate(t *testing.T) {
	store := newMockMemberStore()
	store.raceOnCreate = true

	m, err := ExecuteEnsureMember(context.Background(), EnsureMemberInput{UserID: "U1", DisplayName: "後"}, EnsureMemberDeps{MemberStore: store, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "先に登録" {
		t.Errorf("expected the winning row, got %+v", m)
	}
}

func TestExecuteEnsureMember_StoreError(t *testing.T) {
	store := newMockMemberStore()
	store.getErr = errBoom
	_, err := ExecuteEnsureMember(context.Background(), EnsureMemberInput{UserID: "U1"}, EnsureMemberDeps{MemberStore: store, Now: fixedNow})
	if !errors.Is(err, errBoom) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestExecuteLogin(t *testing.T) {
	store := newMockMemberStore()
	deps := LoginDeps{
		Identity:    &mockIdentity{profile: identity.Profile{UserID: "U-admin", DisplayName: "監督"}},
		MemberStore: store,
		Admins:      access.NewAdminSet([]string{"U-admin"}),
		Now:         fixedNow,
	}

	result, err := ExecuteLogin(context.Background(), LoginInput{}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Viewer.UserID != "U-admin" || !result.Viewer.IsAdmin || result.Viewer.DisplayName != "監督" {
		t.Errorf("unexpected viewer: %+v", result.Viewer)
	}
	if _, ok := store.members["U-admin"]; !ok {
		t.Error("login should register the member")
	}
}

func TestExecuteLogin_Rejected(t *testing.T) {
	deps := LoginDeps{
		Identity:    &mockIdentity{err: identity.ErrInvalidCredential},
		MemberStore: newMockMemberStore(),
		Now:         fixedNow,
	}
	_, err := ExecuteLogin(context.Background(), LoginInput{}, deps)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
