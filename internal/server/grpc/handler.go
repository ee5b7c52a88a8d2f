package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/talentbridge/internal/server/models"
	"github.com/dmitrijs2005/talentbridge/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Authorize reports the caller's identity when its role is one of
// req["roles"]. An empty or missing list admits any authenticated caller.
func (s *GRPCServer) Authorize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	allowed, err := requestedRoles(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if len(allowed) > 0 {
		if err := services.Authorize(p.Role, allowed...); err != nil {
			s.logger.Info(ctx, "authorization denied", "user_id", p.ID, "role", p.Role)
			return nil, status.Error(codes.PermissionDenied, "insufficient role")
		}
	}

	resp, err := structpb.NewStruct(map[string]interface{}{
		"id":    p.ID,
		"email": p.Email,
		"role":  string(p.Role),
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return resp, nil
}

func requestedRoles(req *structpb.Struct) ([]models.Role, error) {
	v, ok := req.GetFields()["roles"]
	if !ok {
		return nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, errors.New("roles must be a list")
	}

	roles := make([]models.Role, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		r, err := models.ParseRole(item.GetStringValue())
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}
