package service

import (
	"errors"
	"strings"

	"devhoc/internal/model"
	"devhoc/internal/repository"
	"devhoc/internal/util"
)

type TeamService interface {
	Create(userID string, req CreateTeamRequest) (*model.Team, error)
	GetByID(id string) (*model.Team, error)
	GetBySlug(slug string) (*model.Team, error)
	List(limit, offset int) ([]model.Team, int64, error)
	Search(keyword string, limit, offset int) ([]model.Team, int64, error)
	Update(id, userID string, req UpdateTeamRequest) (*model.Team, error)
	Delete(id, userID string) error

	Join(teamID, userID string) error
	Leave(teamID, userID string) error
	GetMembers(teamID string, limit, offset int) ([]model.TeamMember, int64, error)
	UpdateMemberRole(teamID, actorID, memberID, role string) error
	RemoveMember(teamID, actorID, memberID string) error
	GetUserTeams(userID string, limit, offset int) ([]model.Team, int64, error)
}

type teamService struct {
	teamRepo            repository.TeamRepository
	notificationService NotificationService
}

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Privacy     string `json:"privacy" binding:"omitempty,oneof=open invite"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Privacy     *string `json:"privacy" binding:"omitempty,oneof=open invite"`
}

func NewTeamService(teamRepo repository.TeamRepository, notificationService NotificationService) TeamService {
	return &teamService{
		teamRepo:            teamRepo,
		notificationService: notificationService,
	}
}

// Create creates a team; the creator becomes its owner member
func (s *teamService) Create(userID string, req CreateTeamRequest) (*model.Team, error) {
	if userID == "" {
		return nil, errors.New("authentication required")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("team name cannot be empty")
	}

	privacy := req.Privacy
	if privacy == "" {
		privacy = model.TeamPrivacyOpen
	}

	slug := util.Slugify(name)
	taken, err := s.teamRepo.IsSlugTaken(slug)
	if err != nil {
		return nil, errors.New("failed to create team")
	}
	if taken {
		slug = util.UniqueSlug(slug)
	}

	team := &model.Team{
		CreatedBy: userID,
		Name:      name,
		Slug:      slug,
		Privacy:   privacy,
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		team.Description = &desc
	}
	if err := s.teamRepo.CreateTeam(team); err != nil {
		return nil, errors.New("failed to create team")
	}

	owner := &model.TeamMember{
		TeamID: team.ID,
		UserID: userID,
		Role:   model.TeamRoleOwner,
	}
	if err := s.teamRepo.AddMember(owner); err != nil {
		return nil, errors.New("failed to add team owner")
	}

	return s.teamRepo.FindTeamByID(team.ID)
}

// GetByID returns a team
func (s *teamService) GetByID(id string) (*model.Team, error) {
	team, err := s.teamRepo.FindTeamByID(id)
	if err != nil {
		return nil, errors.New("team not found")
	}
	return team, nil
}

// GetBySlug returns a team by slug
func (s *teamService) GetBySlug(slug string) (*model.Team, error) {
	team, err := s.teamRepo.FindTeamBySlug(slug)
	if err != nil {
		return nil, errors.New("team not found")
	}
	return team, nil
}

// List lists all teams
func (s *teamService) List(limit, offset int) ([]model.Team, int64, error) {
	limit, offset = clampPage(limit, offset)
	return s.teamRepo.ListTeams(limit, offset)
}

// Search finds teams by name
func (s *teamService) Search(keyword string, limit, offset int) ([]model.Team, int64, error) {
	limit, offset = clampPage(limit, offset)
	return s.teamRepo.SearchTeams(strings.TrimSpace(keyword), limit, offset)
}

// Update edits a team, owner or moderator only
func (s *teamService) Update(id, userID string, req UpdateTeamRequest) (*model.Team, error) {
	team, err := s.teamRepo.FindTeamByID(id)
	if err != nil {
		return nil, errors.New("team not found")
	}

	if !s.canManage(id, userID) {
		return nil, errors.New("only team owners and moderators can edit the team")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.New("team name cannot be empty")
		}
		team.Name = name
	}
	if req.Description != nil {
		team.Description = req.Description
	}
	if req.Privacy != nil {
		team.Privacy = *req.Privacy
	}

	if err := s.teamRepo.UpdateTeam(team); err != nil {
		return nil, errors.New("failed to update team")
	}
	return team, nil
}

// Delete removes a team, owner only
func (s *teamService) Delete(id, userID string) error {
	if _, err := s.teamRepo.FindTeamByID(id); err != nil {
		return errors.New("team not found")
	}

	member, err := s.teamRepo.GetMember(id, userID)
	if err != nil || member.Role != model.TeamRoleOwner {
		return errors.New("only the team owner can delete the team")
	}

	return s.teamRepo.DeleteTeam(id)
}

// Join adds the user to an open team
func (s *teamService) Join(teamID, userID string) error {
	if userID == "" {
		return errors.New("authentication required")
	}

	team, err := s.teamRepo.FindTeamByID(teamID)
	if err != nil {
		return errors.New("team not found")
	}

	if team.Privacy != model.TeamPrivacyOpen {
		return errors.New("this team is invite only")
	}

	if ok, _ := s.teamRepo.IsMember(teamID, userID); ok {
		return errors.New("already a member of this team")
	}

	member := &model.TeamMember{
		TeamID: teamID,
		UserID: userID,
		Role:   model.TeamRoleMember,
	}
	if err := s.teamRepo.AddMember(member); err != nil {
		return errors.New("failed to join team")
	}

	if s.notificationService != nil {
		s.notificationService.Notify(NotificationEvent{
			UserID:   team.CreatedBy,
			SenderID: &userID,
			Type:     model.NotificationTypeTeamJoined,
			Title:    "New team member",
			Message:  "Someone joined " + team.Name,
			TargetID: &team.ID,
		})
	}

	return nil
}

// Leave removes the user from a team. Owners must delete or transfer first.
func (s *teamService) Leave(teamID, userID string) error {
	member, err := s.teamRepo.GetMember(teamID, userID)
	if err != nil {
		return errors.New("you are not a member of this team")
	}

	if member.Role == model.TeamRoleOwner {
		return errors.New("the team owner cannot leave the team")
	}

	return s.teamRepo.RemoveMember(teamID, userID)
}

// GetMembers lists a team's members
func (s *teamService) GetMembers(teamID string, limit, offset int) ([]model.TeamMember, int64, error) {
	limit, offset = clampPage(limit, offset)
	if _, err := s.teamRepo.FindTeamByID(teamID); err != nil {
		return nil, 0, errors.New("team not found")
	}
	return s.teamRepo.GetMembers(teamID, limit, offset)
}

// UpdateMemberRole changes a member's role, owner only. The owner role
// itself cannot be granted or revoked here.
func (s *teamService) UpdateMemberRole(teamID, actorID, memberID, role string) error {
	if role != model.TeamRoleModerator && role != model.TeamRoleMember {
		return errors.New("role must be moderator or member")
	}

	actor, err := s.teamRepo.GetMember(teamID, actorID)
	if err != nil || actor.Role != model.TeamRoleOwner {
		return errors.New("only the team owner can change roles")
	}

	member, err := s.teamRepo.GetMember(teamID, memberID)
	if err != nil {
		return errors.New("member not found")
	}
	if member.Role == model.TeamRoleOwner {
		return errors.New("the owner's role cannot be changed")
	}

	return s.teamRepo.UpdateMemberRole(teamID, memberID, role)
}

// RemoveMember kicks a member, owner or moderator only
func (s *teamService) RemoveMember(teamID, actorID, memberID string) error {
	if actorID == memberID {
		return s.Leave(teamID, memberID)
	}

	if !s.canManage(teamID, actorID) {
		return errors.New("only team owners and moderators can remove members")
	}

	member, err := s.teamRepo.GetMember(teamID, memberID)
	if err != nil {
		return errors.New("member not found")
	}
	if member.Role == model.TeamRoleOwner {
		return errors.New("the team owner cannot be removed")
	}

	return s.teamRepo.RemoveMember(teamID, memberID)
}

// GetUserTeams lists the teams a user belongs to
func (s *teamService) GetUserTeams(userID string, limit, offset int) ([]model.Team, int64, error) {
	limit, offset = clampPage(limit, offset)
	return s.teamRepo.GetUserTeams(userID, limit, offset)
}

func (s *teamService) canManage(teamID, userID string) bool {
	member, err := s.teamRepo.GetMember(teamID, userID)
	if err != nil {
		return false
	}
	return member.Role == model.TeamRoleOwner || member.Role == model.TeamRoleModerator
}
