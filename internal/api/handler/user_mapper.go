package handler

import (
	"github.com/userstore/user-service/internal/auth/integrity"
	"github.com/userstore/user-service/internal/core/domain"
	"github.com/userstore/user-service/internal/core/ports"
)

// --- Request → Service input ---

func toSaveUser(req saveUserRequest) domain.User {
	return domain.User{
		Name:   req.Name,
		Age:    req.Age,
		Email:  req.Email,
		Gender: req.Gender,
	}
}

func toUpdateInput(req updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		ID:    req.ID,
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
	}
}

func toSearchCriteria(req searchUsersRequest) ports.SearchCriteria {
	return ports.SearchCriteria{
		Email:  req.Email,
		Gender: req.Gender,
		Name:   req.Name,
	}
}

// --- Service result → HTTP response ---

func toUserResponse(u domain.User, hasher *integrity.Hasher) userResponse {
	return userResponse{
		ID:     u.ID,
		Name:   u.Name,
		Age:    u.Age,
		Email:  u.Email,
		Gender: u.Gender,
		Hid:    hasher.Sum(u.Name, u.Email),
	}
}

func toUserListResponse(users []domain.User, hasher *integrity.Hasher) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u, hasher)
	}
	return out
}

func toCountsResponse(counts []ports.GroupCount) []groupCountResponse {
	out := make([]groupCountResponse, len(counts))
	for i, gc := range counts {
		out[i] = groupCountResponse{Group: gc.Group, Count: gc.Count}
	}
	return out
}

func toAuditResponse(events []domain.AuditEvent) []auditEventResponse {
	out := make([]auditEventResponse, len(events))
	for i, ev := range events {
		out[i] = auditEventResponse{
			ID:         ev.ID,
			Subject:    ev.Subject,
			Role:       string(ev.Role),
			Action:     string(ev.Action),
			TargetID:   ev.TargetID,
			Outcome:    string(ev.Outcome),
			OccurredAt: ev.OccurredAt.UTC(),
		}
	}
	return out
}
