package service

import (
	"teamwork/internal/model"

	"github.com/google/uuid"
)

// CanAccess is the shared role/relationship access rule for
// team-scoped resources:
//
//   - admins always pass;
//   - managers pass iff they are a team member;
//   - users pass iff they are a team member and, when a creator
//     constraint is given, they are that creator.
//
// Meetings do not use this rule; their access is a strict
// participant/organizer allow-list.
func CanAccess(user *model.User, memberIDs []uuid.UUID, creatorID *uuid.UUID) bool {
	isMember := false
	for _, id := range memberIDs {
		if id == user.ID {
			isMember = true
			break
		}
	}

	switch user.Role {
	case model.RoleAdmin:
		return true
	case model.RoleManager:
		return isMember
	default:
		if creatorID == nil {
			return isMember
		}
		return isMember && user.ID == *creatorID
	}
}
