package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	serverFlags = []string{"-a", "-m", "-d", "-s", "-t", "-o", "-k", "-l", "-u", "-p", "-b", "-g", "-e"}
	clientFlags = []string{"-a", "-t", "-i"}
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "server command line drops config file flag",
			args:    []string{"-c", "/etc/talentbridge.json", "-a", ":8080", "-m", ":50051", "-k", "localhost:6379"},
			allowed: serverFlags,
			want:    []string{"-a", ":8080", "-m", ":50051", "-k", "localhost:6379"},
		},
		{
			name:    "dsn with query string kept whole",
			args:    []string{"-d", "postgres://tb:tb@db:5432/tb?sslmode=disable", "-l", "debug"},
			allowed: serverFlags,
			want:    []string{"-d", "postgres://tb:tb@db:5432/tb?sslmode=disable", "-l", "debug"},
		},
		{
			name:    "equals form",
			args:    []string{"-d=postgres://h/db?sslmode=disable", "-t=240", "-o=5"},
			allowed: serverFlags,
			want:    []string{"-d=postgres://h/db?sslmode=disable", "-t=240", "-o=5"},
		},
		{
			name:    "s3 flags",
			args:    []string{"-u", "minio", "-p", "minio123", "-b", "avatars", "-g", "us-east-1", "-e", "http://minio:9000"},
			allowed: serverFlags,
			want:    []string{"-u", "minio", "-p", "minio123", "-b", "avatars", "-g", "us-east-1", "-e", "http://minio:9000"},
		},
		{
			name:    "secret starting with dash needs equals form",
			args:    []string{"-s", "-xyz", "-s=-xyz"},
			allowed: serverFlags,
			want:    []string{"-s", "-s=-xyz"},
		},
		{
			name:    "client keeps its flags and skips the command",
			args:    []string{"-a", "http://localhost:8080", "-t", "10", "login", "--email", "a@x.com"},
			allowed: clientFlags,
			want:    []string{"-a", "http://localhost:8080", "-t", "10"},
		},
		{
			name:    "client ignores server only flags",
			args:    []string{"-k", "localhost:6379", "-i", "5", "-d", "postgres://h/db"},
			allowed: clientFlags,
			want:    []string{"-i", "5"},
		},
		{
			name:    "flag without value at end",
			args:    []string{"-a", ":8080", "-t"},
			allowed: serverFlags,
			want:    []string{"-a", ":8080", "-t"},
		},
		{
			name:    "config flags only",
			args:    []string{"-a", ":8080", "-config=/etc/tb.json", "-t", "60"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=/etc/tb.json"},
		},
		{
			name:    "empty",
			args:    []string{},
			allowed: serverFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short among server flags", []string{"server", "-a", ":8080", "-c", "/etc/tb.json", "-t", "60"}, "/etc/tb.json"},
		{"long equals form", []string{"server", "-config=/etc/tb.json", "-k", "localhost:6379"}, "/etc/tb.json"},
		{"client command line", []string{"client", "-c", "client.json", "-a", "http://api", "register"}, "client.json"},
		{"absent", []string{"server", "-a", ":8080", "-d", "postgres://h/db"}, ""},
		{"last wins", []string{"server", "-c", "one.json", "-config", "two.json"}, "two.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			assert.Equal(t, tt.want, JsonConfigFlags())
		})
	}
}
