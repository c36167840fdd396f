package repository

import (
	"context"
	"errors"

	"teamwork/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create adds a new team to the database
func (r *TeamRepository) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

// GetByID retrieves a team by its ID
func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).First(&team, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetByIDWithMembers retrieves a team with its member list loaded
func (r *TeamRepository) GetByIDWithMembers(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).Preload("Members").First(&team, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByName retrieves a team by its unique name, or nil if absent
func (r *TeamRepository) FindByName(ctx context.Context, name string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &team, err
}

// FindByInviteCode retrieves a team by invite code with members loaded
func (r *TeamRepository) FindByInviteCode(ctx context.Context, code string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).Preload("Members").Where("invite_code = ?", code).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// Delete removes a team; tasks and meetings go with it via the
// schema-level cascades.
func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Team{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// AddMember inserts a membership row
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO user_teams (user_id, team_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		userID, teamID,
	).Error
}

// RemoveMember deletes a membership row
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM user_teams WHERE user_id = ? AND team_id = ?",
		userID, teamID,
	).Error
}

// IsMember reports whether the user belongs to the team
func (r *TeamRepository) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("user_teams").
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

// MembershipCount returns how many teams the user currently belongs
// to. The single-team invariant is checked against this at the
// service layer, not in the schema.
func (r *TeamRepository) MembershipCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("user_teams").
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// MembersIn returns the subset of the given users that are members of
// the team.
func (r *TeamRepository) MembersIn(ctx context.Context, teamID uuid.UUID, userIDs []uuid.UUID) ([]model.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN user_teams ON user_teams.user_id = users.id").
		Where("user_teams.team_id = ? AND users.id IN ?", teamID, userIDs).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
