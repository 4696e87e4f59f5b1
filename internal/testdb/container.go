package testdb

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	postgresImage    = "postgres:16-alpine"
	postgresUser     = "polls"
	postgresPassword = "polls"
	postgresDB       = "polls_test"
	readyTimeout     = 60 * time.Second
)

var postgresPort = nat.Port("5432/tcp")

// Container is a disposable Postgres server running under Docker.
type Container struct {
	ID  string
	DSN string
	cli *client.Client
}

// StartPostgres pulls the image if needed, starts a container on a random
// loopback port and waits until it accepts connections.
func StartPostgres(ctx context.Context) (*Container, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, fmt.Errorf("docker daemon: %w", err)
	}

	if err := ensureImage(ctx, cli, postgresImage); err != nil {
		cli.Close()
		return nil, err
	}

	name := "polls-test-" + uuid.NewString()[:8]
	resp, err := cli.ContainerCreate(ctx,
		&container.Config{
			Image: postgresImage,
			Env: []string{
				"POSTGRES_USER=" + postgresUser,
				"POSTGRES_PASSWORD=" + postgresPassword,
				"POSTGRES_DB=" + postgresDB,
			},
			ExposedPorts: nat.PortSet{postgresPort: struct{}{}},
		},
		&container.HostConfig{
			PortBindings: nat.PortMap{
				postgresPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: ""}},
			},
		},
		nil, nil, name)
	if err != nil {
		cli.Close()
		return nil, fmt.Errorf("create container %s: %w", name, err)
	}

	c := &Container{ID: resp.ID, cli: cli}
	if err := cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		c.Terminate(context.Background())
		return nil, fmt.Errorf("start container %s: %w", name, err)
	}

	info, err := cli.ContainerInspect(ctx, resp.ID)
	if err != nil {
		c.Terminate(context.Background())
		return nil, fmt.Errorf("inspect container %s: %w", name, err)
	}
	bindings := info.NetworkSettings.Ports[postgresPort]
	if len(bindings) == 0 {
		c.Terminate(context.Background())
		return nil, fmt.Errorf("container %s published no port for %s", name, postgresPort)
	}

	c.DSN = fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		postgresUser, postgresPassword, net.JoinHostPort("127.0.0.1", bindings[0].HostPort), postgresDB)

	if err := waitReady(ctx, c.DSN, readyTimeout); err != nil {
		c.Terminate(context.Background())
		return nil, err
	}
	return c, nil
}

// Terminate force-removes the container and its volumes.
func (c *Container) Terminate(ctx context.Context) error {
	defer c.cli.Close()
	return c.cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: true, RemoveVolumes: true})
}

func ensureImage(ctx context.Context, cli *client.Client, ref string) error {
	if _, _, err := cli.ImageInspectWithRaw(ctx, ref); err == nil {
		return nil
	}

	pullCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	rc, err := cli.ImagePull(pullCtx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image %q: %w", ref, err)
	}
	defer rc.Close()
	_, _ = io.Copy(io.Discard, rc)
	return nil
}

// waitReady polls the server until a connection succeeds or timeout passes.
func waitReady(ctx context.Context, dsn string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		attemptCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		conn, err := pgx.Connect(attemptCtx, dsn)
		if err == nil {
			err = conn.Ping(attemptCtx)
			conn.Close(attemptCtx)
		}
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("postgres not ready within %s: %w", timeout, lastErr)
}
