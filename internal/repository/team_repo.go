package repository

import (
	"devhoc/internal/model"
	"devhoc/internal/util"

	"gorm.io/gorm"
)

type TeamRepository interface {
	// Team CRUD
	CreateTeam(team *model.Team) error
	FindTeamByID(id string) (*model.Team, error)
	FindTeamBySlug(slug string) (*model.Team, error)
	UpdateTeam(team *model.Team) error
	DeleteTeam(id string) error
	ListTeams(limit, offset int) ([]model.Team, int64, error)
	SearchTeams(keyword string, limit, offset int) ([]model.Team, int64, error)
	IsSlugTaken(slug string) (bool, error)

	// Team members
	AddMember(member *model.TeamMember) error
	RemoveMember(teamID, userID string) error
	GetMember(teamID, userID string) (*model.TeamMember, error)
	GetMembers(teamID string, limit, offset int) ([]model.TeamMember, int64, error)
	UpdateMemberRole(teamID, userID, role string) error
	CountMembers(teamID string) (int64, error)
	GetUserTeams(userID string, limit, offset int) ([]model.Team, int64, error)
	IsMember(teamID, userID string) (bool, error)
}

type teamRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

func NewTeamRepository(db *gorm.DB, redis *util.RedisClient) TeamRepository {
	return &teamRepository{db: db, redis: redis}
}

// CreateTeam creates a new team
func (r *teamRepository) CreateTeam(team *model.Team) error {
	return r.db.Create(team).Error
}

// FindTeamByID finds a team by its ID
func (r *teamRepository) FindTeamByID(id string) (*model.Team, error) {
	var team model.Team
	err := r.db.Preload("Creator").Where("id = ?", id).First(&team).Error
	if err != nil {
		return nil, err
	}

	// Count members
	var count int64
	r.db.Model(&model.TeamMember{}).Where("team_id = ?", id).Count(&count)
	team.MemberCount = count

	return &team, nil
}

// FindTeamBySlug finds a team by its slug
func (r *teamRepository) FindTeamBySlug(slug string) (*model.Team, error) {
	var team model.Team
	err := r.db.Preload("Creator").Where("slug = ?", slug).First(&team).Error
	if err != nil {
		return nil, err
	}

	var count int64
	r.db.Model(&model.TeamMember{}).Where("team_id = ?", team.ID).Count(&count)
	team.MemberCount = count

	return &team, nil
}

// UpdateTeam updates a team
func (r *teamRepository) UpdateTeam(team *model.Team) error {
	return r.db.Save(team).Error
}

// DeleteTeam deletes a team (soft delete) and its memberships
func (r *teamRepository) DeleteTeam(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&model.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Team{}).Error
	})
}

// ListTeams lists teams by creation date
func (r *teamRepository) ListTeams(limit, offset int) ([]model.Team, int64, error) {
	var total int64
	if err := r.db.Model(&model.Team{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var teams []model.Team
	err := r.db.Preload("Creator").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&teams).Error
	if err != nil {
		return nil, 0, err
	}

	return teams, total, nil
}

// SearchTeams finds teams by name keyword
func (r *teamRepository) SearchTeams(keyword string, limit, offset int) ([]model.Team, int64, error) {
	pattern := "%" + keyword + "%"
	query := r.db.Model(&model.Team{}).Where("name ILIKE ?", pattern)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var teams []model.Team
	err := query.Preload("Creator").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&teams).Error
	if err != nil {
		return nil, 0, err
	}

	return teams, total, nil
}

// IsSlugTaken checks whether a team slug is already in use
func (r *teamRepository) IsSlugTaken(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Team{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMember adds a user to a team
func (r *teamRepository) AddMember(member *model.TeamMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a user from a team
func (r *teamRepository) RemoveMember(teamID, userID string) error {
	return r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&model.TeamMember{}).Error
}

// GetMember gets a team membership
func (r *teamRepository) GetMember(teamID, userID string) (*model.TeamMember, error) {
	var member model.TeamMember
	err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetMembers lists team members
func (r *teamRepository) GetMembers(teamID string, limit, offset int) ([]model.TeamMember, int64, error) {
	query := r.db.Model(&model.TeamMember{}).Where("team_id = ?", teamID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []model.TeamMember
	err := query.Preload("User").
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&members).Error
	if err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// UpdateMemberRole updates a member's role within a team
func (r *teamRepository) UpdateMemberRole(teamID, userID, role string) error {
	return r.db.Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("role", role).Error
}

// CountMembers counts team members
func (r *teamRepository) CountMembers(teamID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error
	return count, err
}

// GetUserTeams lists teams a user belongs to
func (r *teamRepository) GetUserTeams(userID string, limit, offset int) ([]model.Team, int64, error) {
	query := r.db.Model(&model.Team{}).
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var teams []model.Team
	err := query.Preload("Creator").
		Order("teams.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&teams).Error
	if err != nil {
		return nil, 0, err
	}

	return teams, total, nil
}

// IsMember checks whether a user belongs to a team
func (r *teamRepository) IsMember(teamID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
