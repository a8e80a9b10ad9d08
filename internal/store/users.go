package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// Role is a users-permissions role, unique by Type.
type Role struct {
	ID          int64
	Name        string
	Description string
	Type        string
}

// RoleInput holds the fields needed to create a role.
type RoleInput struct {
	Name        string
	Description string
	Type        string
}

// User is a users-permissions user, unique by Email.
type User struct {
	ID           int64
	DocumentID   uuid.UUID
	Username     string
	Email        string
	Provider     string
	PasswordHash string
	Confirmed    bool
	Blocked      bool
	RoleID       int64 // 0 when unassigned
}

// UserInput is the staging shape for a new user. PasswordHash must already
// be hashed.
type UserInput struct {
	Username     string
	Email        string
	Provider     string
	PasswordHash string
	Confirmed    bool
	Blocked      bool
	RoleID       int64
}

// FindRoleByType returns ErrNotFound when no role has the given type.
func (s *Store) FindRoleByType(ctx context.Context, roleType string) (*Role, error) {
	query, args := s.builder().Select("id", "name", "description", "type").
		From(entsql.Table(tableRoles)).
		Where(entsql.EQ("type", roleType)).
		Limit(1).
		Query()
	var r Role
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&r.ID, &r.Name, &r.Description, &r.Type); err != nil {
		return nil, fmt.Errorf("find role %q: %w", roleType, notFound(err))
	}
	return &r, nil
}

// CreateRole inserts a users-permissions role.
func (s *Store) CreateRole(ctx context.Context, in RoleInput) (*Role, error) {
	now := s.now()
	id, err := s.insert(ctx, s.db, s.builder().Insert(tableRoles).
		Columns("name", "description", "type", "created_at", "updated_at").
		Values(in.Name, in.Description, in.Type, now, now))
	if err != nil {
		return nil, fmt.Errorf("create role %q: %w", in.Type, err)
	}
	return &Role{ID: id, Name: in.Name, Description: in.Description, Type: in.Type}, nil
}

// FindUserByEmail returns ErrNotFound when no user has email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	query, args := s.builder().
		Select("id", "document_id", "username", "email", "provider", "password", "confirmed", "blocked", "role_id").
		From(entsql.Table(tableUsers)).
		Where(entsql.EQ("email", email)).
		Limit(1).
		Query()
	var (
		u      User
		hash   sql.NullString
		roleID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.DocumentID, &u.Username, &u.Email, &u.Provider, &hash, &u.Confirmed, &u.Blocked, &roleID,
	)
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", email, notFound(err))
	}
	u.PasswordHash = hash.String
	u.RoleID = roleID.Int64
	return &u, nil
}

// CreateUser inserts a user. A zero RoleID leaves the role unset.
func (s *Store) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	provider := in.Provider
	if provider == "" {
		provider = "local"
	}
	var roleID any
	if in.RoleID != 0 {
		roleID = in.RoleID
	}

	now := s.now()
	docID := uuid.New()
	id, err := s.insert(ctx, s.db, s.builder().Insert(tableUsers).
		Columns("document_id", "username", "email", "provider", "password", "confirmed", "blocked", "role_id", "created_at", "updated_at").
		Values(docID, in.Username, in.Email, provider, in.PasswordHash, in.Confirmed, in.Blocked, roleID, now, now))
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", in.Email, err)
	}
	return &User{
		ID:           id,
		DocumentID:   docID,
		Username:     in.Username,
		Email:        in.Email,
		Provider:     provider,
		PasswordHash: in.PasswordHash,
		Confirmed:    in.Confirmed,
		Blocked:      in.Blocked,
		RoleID:       in.RoleID,
	}, nil
}
