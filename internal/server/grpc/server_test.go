package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/dmitrijs2005/talentbridge/internal/logging"
	"github.com/dmitrijs2005/talentbridge/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func startBufServer(t *testing.T, users *fakeAuthenticator) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := newTestServer(users)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return conn
}

func authorize(ctx context.Context, conn *grpc.ClientConn, token string, roles ...interface{}) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(map[string]interface{}{"roles": roles})
	if err != nil {
		return nil, err
	}
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
	}
	resp := new(structpb.Struct)
	err = conn.Invoke(ctx, AuthorizeMethod, req, resp)
	return resp, err
}

func TestAuthorize_EndToEnd(t *testing.T) {
	users := &fakeAuthenticator{users: map[string]*models.User{
		"admin":  {ID: "a", Email: "admin@example.com", Role: models.RoleAdmin},
		"talent": {ID: "t", Email: "t@example.com", Role: models.RoleTalent},
	}}
	conn := startBufServer(t, users)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := authorize(ctx, conn, "admin", "ADMIN")
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	fields := resp.GetFields()
	if fields["id"].GetStringValue() != "a" || fields["role"].GetStringValue() != "ADMIN" {
		t.Fatalf("unexpected response: %v", resp)
	}

	_, err = authorize(ctx, conn, "talent", "ADMIN", "manager")
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", err)
	}

	if _, err = authorize(ctx, conn, "talent"); err != nil {
		t.Fatalf("empty role list should admit any user: %v", err)
	}

	_, err = authorize(ctx, conn, "", "ADMIN")
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}

	_, err = authorize(ctx, conn, "admin", "WIZARD")
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestHealth_Serving(t *testing.T) {
	conn := startBufServer(t, &fakeAuthenticator{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("unexpected status %v", resp.GetStatus())
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeAuthenticator{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop(), &fakeAuthenticator{})

	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}
