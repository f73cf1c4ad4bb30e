package org

import (
	"context"
	"fmt"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/user"
)

type Repository interface {
	IsTeamManager(ctx context.Context, userID, teamID int64) (bool, error)
	IsTeamMember(ctx context.Context, userID, teamID int64) (bool, error)
	IsClientOwner(ctx context.Context, userID, clientID int64) (bool, error)
	ListTeamMembers(ctx context.Context, teamID int64) ([]int64, error)
	ListClientsByAccountManager(ctx context.Context, accountManagerID int64) ([]int64, error)
}

var (
	ErrNotRecruiter   = internal.NewForbiddenError("only recruiters can perform this action", internal.ErrCodeNotRecruiter)
	ErrNotTeamMember  = internal.NewForbiddenError("recruiter is not a member of the role's team", internal.ErrCodeNotTeamMember)
	ErrNotTeamManager = internal.NewForbiddenError("actor does not manage the role's team", internal.ErrCodeNotTeamManager)
	ErrNotClientOwner = internal.NewForbiddenError("actor does not own the role's client", internal.ErrCodeNotClientOwner)
)

// Policy answers ownership questions for the dropout workflow and the ledger.
// Identity is resolved upstream; Policy only enforces team and client relationships.
type Policy struct {
	repo Repository
}

func NewPolicy(repo Repository) *Policy {
	return &Policy{repo: repo}
}

// CanRecord allows recruiters who belong to the team that works the role.
func (p *Policy) CanRecord(ctx context.Context, actor *internal.Actor, teamID int64) error {
	if actor == nil || actor.Role != user.RoleRecruiter {
		return ErrNotRecruiter
	}
	member, err := p.repo.IsTeamMember(ctx, actor.ID, teamID)
	if err != nil {
		return fmt.Errorf("check team membership: %w", err)
	}
	if !member {
		return ErrNotTeamMember
	}
	return nil
}

// CanAcknowledge allows the recruitment manager of the team.
func (p *Policy) CanAcknowledge(ctx context.Context, actor *internal.Actor, teamID int64) error {
	if actor == nil || actor.Role != user.RoleRecruitmentManager {
		return ErrNotTeamManager
	}
	ok, err := p.repo.IsTeamManager(ctx, actor.ID, teamID)
	if err != nil {
		return fmt.Errorf("check team manager: %w", err)
	}
	if !ok {
		return ErrNotTeamManager
	}
	return nil
}

// CanDecide allows the account manager who owns the client.
func (p *Policy) CanDecide(ctx context.Context, actor *internal.Actor, clientID int64) error {
	if actor == nil || actor.Role != user.RoleAccountManager {
		return ErrNotClientOwner
	}
	ok, err := p.repo.IsClientOwner(ctx, actor.ID, clientID)
	if err != nil {
		return fmt.Errorf("check client owner: %w", err)
	}
	if !ok {
		return ErrNotClientOwner
	}
	return nil
}

func (p *Policy) TeamMembers(ctx context.Context, teamID int64) ([]int64, error) {
	return p.repo.ListTeamMembers(ctx, teamID)
}

func (p *Policy) ClientsOf(ctx context.Context, accountManagerID int64) ([]int64, error) {
	return p.repo.ListClientsByAccountManager(ctx, accountManagerID)
}
