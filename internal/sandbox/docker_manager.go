package sandbox

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/mount"
	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
	"go.uber.org/zap"

	"github.com/sandboxagent/sandboxagent/models"
)

// LifecycleMetrics records container lifecycle events. Implemented by
// metrics.SandboxMetrics; kept as an interface here to avoid importing the
// metrics package.
type LifecycleMetrics interface {
	IncCreated()
	IncReused()
	IncDestroyed()
	IncRecreated()
}

// DockerManager implements Manager against a Docker-compatible engine.
// It assumes the client is safe for concurrent use (the official SDK's is)
// and that, for a single conversation id, exec calls are already serialised
// by the caller's session mutex — across ids it allows full concurrency.
type DockerManager struct {
	cfg     Config
	cli     *client.Client
	logger  *zap.Logger
	metrics LifecycleMetrics

	mu         sync.Mutex
	containers map[string]*dockerSandbox // conversation id -> handle
}

// NewDockerManager connects to the engine using the standard docker
// environment (DOCKER_HOST, etc.) and negotiates the API version.
func NewDockerManager(cfg Config, logger *zap.Logger) (*DockerManager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, &Error{Kind: KindSandboxUnavailable, Message: err.Error()}
	}
	return &DockerManager{
		cfg:        cfg,
		cli:        cli,
		logger:     logger,
		containers: make(map[string]*dockerSandbox),
	}, nil
}

// WithMetrics attaches a LifecycleMetrics sink, returning the manager for
// chaining at construction time.
func (m *DockerManager) WithMetrics(lm LifecycleMetrics) *DockerManager {
	m.metrics = lm
	return m
}

type dockerSandbox struct {
	id            string
	conversationID string
	cfg           Config
	cli           *client.Client
	logger        *zap.Logger
}

func (s *dockerSandbox) ID() string { return s.id }

func (s *dockerSandbox) Destroy(ctx context.Context) error {
	timeout := 5
	_ = s.cli.ContainerStop(ctx, s.id, container.StopOptions{Timeout: &timeout})
	return s.cli.ContainerRemove(ctx, s.id, container.RemoveOptions{Force: true})
}

func (s *dockerSandbox) Exec(ctx context.Context, argv []string, timeoutSeconds int) (*models.ExecResult, error) {
	if timeoutSeconds <= 0 {
		timeoutSeconds = s.cfg.ExecTimeoutSeconds
	}
	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	start := time.Now()

	created, err := s.cli.ContainerExecCreate(execCtx, s.id, dockertypes.ExecConfig{
		Cmd:          argv,
		WorkingDir:   "/workspace",
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return nil, &Error{Kind: KindContainerStartFail, Message: err.Error()}
	}

	attach, err := s.cli.ContainerExecAttach(execCtx, created.ID, dockertypes.ExecStartCheck{})
	if err != nil {
		return nil, &Error{Kind: KindContainerStartFail, Message: err.Error()}
	}

	var combined bytes.Buffer
	cappedOut := newCappingWriter(&combined, s.cfg.OutputCapBytes)
	copyDone := make(chan error, 1)
	go func() {
		_, cErr := stdcopy.StdCopy(cappedOut, cappedOut, attach.Reader)
		copyDone <- cErr
	}()

	select {
	case <-execCtx.Done():
		// Closing the hijacked connection unblocks the copy goroutine's read
		// so it stops writing into combined before we read it below.
		attach.Close()
		<-copyDone
		s.killTimedOutProcess(ctx, created.ID)

		duration := time.Since(start).Milliseconds()
		return &models.ExecResult{
			ExitCode:  -1,
			Output:    combined.Bytes(),
			Duration:  duration,
			Truncated: cappedOut.truncated,
			TimedOut:  true,
		}, nil
	case <-copyDone:
		attach.Close()
	}

	inspect, err := s.cli.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return nil, &Error{Kind: KindContainerStartFail, Message: err.Error()}
	}

	return &models.ExecResult{
		ExitCode:  inspect.ExitCode,
		Output:    combined.Bytes(),
		Duration:  time.Since(start).Milliseconds(),
		Truncated: cappedOut.truncated,
		TimedOut:  false,
	}, nil
}

// killTimedOutProcess best-effort terminates the process behind a
// timed-out exec. Docker has no "kill exec" API; ContainerExecInspect's Pid
// is the process's host-visible pid, since exec'd processes are children of
// the daemon's containerd-shim, so a direct signal reaches it.
func (s *dockerSandbox) killTimedOutProcess(ctx context.Context, execID string) {
	inspect, err := s.cli.ContainerExecInspect(ctx, execID)
	if err != nil {
		s.logger.Warn("could not inspect timed-out exec to kill it", zap.Error(err))
		return
	}
	if inspect.Pid <= 0 {
		return
	}
	if err := syscall.Kill(inspect.Pid, syscall.SIGKILL); err != nil {
		s.logger.Warn("could not kill timed-out exec process",
			zap.Int("pid", inspect.Pid), zap.Error(err))
	}
}

// Exec implements Manager.Exec: get-or-create the container, run argv,
// transparently recreate once if the container has disappeared.
func (m *DockerManager) Exec(ctx context.Context, conversationID string, argv []string) (*models.ExecResult, error) {
	sbx, err := m.getOrCreate(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	res, err := sbx.Exec(ctx, argv, m.cfg.ExecTimeoutSeconds)
	if err == nil {
		return res, nil
	}

	if !m.containerGone(ctx, sbx.id) {
		return nil, err
	}

	m.logger.Warn("sandbox container vanished, recreating",
		zap.String("conversation_id", conversationID), zap.String("container_id", sbx.id))
	m.forget(conversationID)
	if m.metrics != nil {
		m.metrics.IncRecreated()
	}

	sbx, err = m.getOrCreate(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return sbx.Exec(ctx, argv, m.cfg.ExecTimeoutSeconds)
}

func (m *DockerManager) containerGone(ctx context.Context, id string) bool {
	_, err := m.cli.ContainerInspect(ctx, id)
	return err != nil
}

func (m *DockerManager) forget(conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.containers, conversationID)
}

func (m *DockerManager) getOrCreate(ctx context.Context, conversationID string) (*dockerSandbox, error) {
	m.mu.Lock()
	if sbx, ok := m.containers[conversationID]; ok {
		m.mu.Unlock()
		if m.metrics != nil {
			m.metrics.IncReused()
		}
		return sbx, nil
	}
	m.mu.Unlock()

	workspace := filepath.Join(m.cfg.WorkspaceRoot, conversationID)
	if err := os.MkdirAll(workspace, 0o700); err != nil {
		return nil, &Error{Kind: KindSandboxUnavailable, Message: err.Error()}
	}
	absWorkspace, err := filepath.Abs(workspace)
	if err != nil {
		return nil, &Error{Kind: KindSandboxUnavailable, Message: err.Error()}
	}

	name := m.cfg.ContainerName(conversationID)
	memBytes := m.cfg.MemMiB * 1024 * 1024
	nanoCPUs := int64(m.cfg.CPUs * 1e9)
	pidsLimit := m.cfg.Pids

	created, err := m.cli.ContainerCreate(ctx,
		&container.Config{
			Image:        m.cfg.Image,
			Cmd:          []string{"sleep", "infinity"},
			WorkingDir:   "/workspace",
			User:         "1000:1000",
			ExposedPorts: nat.PortSet{},
		},
		&container.HostConfig{
			ReadonlyRootfs: true,
			CapDrop:        []string{"ALL"},
			NetworkMode:    "none",
			SecurityOpt:    []string{"no-new-privileges:true"},
			Resources: container.Resources{
				Memory:    memBytes,
				NanoCPUs:  nanoCPUs,
				PidsLimit: &pidsLimit,
			},
			Mounts: []mount.Mount{
				{Type: mount.TypeBind, Source: absWorkspace, Target: "/workspace"},
				{Type: mount.TypeTmpfs, Target: "/tmp", TmpfsOptions: &mount.TmpfsOptions{SizeBytes: 64 << 20}},
				{Type: mount.TypeTmpfs, Target: "/var/tmp", TmpfsOptions: &mount.TmpfsOptions{SizeBytes: 64 << 20}},
				{Type: mount.TypeTmpfs, Target: "/run", TmpfsOptions: &mount.TmpfsOptions{SizeBytes: 64 << 20}},
			},
		},
		nil, nil, name,
	)
	if err != nil {
		return nil, &Error{Kind: KindContainerStartFail, Message: err.Error()}
	}

	if err := m.cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		_ = m.cli.ContainerRemove(ctx, created.ID, container.RemoveOptions{Force: true})
		return nil, &Error{Kind: KindContainerStartFail, Message: err.Error()}
	}

	sbx := &dockerSandbox{id: created.ID, conversationID: conversationID, cfg: m.cfg, cli: m.cli, logger: m.logger}

	m.mu.Lock()
	m.containers[conversationID] = sbx
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncCreated()
	}
	return sbx, nil
}

// Reset destroys the container for conversationID, if any. Reset(k) twice in
// a row leaves no container and is not an error (§8 reset idempotence).
func (m *DockerManager) Reset(ctx context.Context, conversationID string) error {
	m.mu.Lock()
	sbx, ok := m.containers[conversationID]
	delete(m.containers, conversationID)
	m.mu.Unlock()

	if !ok {
		return nil
	}
	if m.metrics != nil {
		m.metrics.IncDestroyed()
	}
	return sbx.Destroy(ctx)
}

// CleanupAll removes every container whose name matches the configured
// prefix. Invoked at shutdown and recommended at startup to reap orphans
// from prior crashes.
func (m *DockerManager) CleanupAll(ctx context.Context) error {
	f := filters.NewArgs(filters.Arg("name", m.cfg.ContainerPrefix))
	list, err := m.cli.ContainerList(ctx, container.ListOptions{All: true, Filters: f})
	if err != nil {
		return &Error{Kind: KindSandboxUnavailable, Message: err.Error()}
	}

	var firstErr error
	for _, c := range list {
		timeout := 5
		_ = m.cli.ContainerStop(ctx, c.ID, container.StopOptions{Timeout: &timeout})
		if err := m.cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: true}); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	m.mu.Lock()
	m.containers = make(map[string]*dockerSandbox)
	m.mu.Unlock()

	return firstErr
}

// cappingWriter writes up to capBytes into dst, discarding the rest and
// setting truncated. cap<=0 means unlimited.
type cappingWriter struct {
	dst       *bytes.Buffer
	cap       int64
	written   int64
	truncated bool
}

func newCappingWriter(dst *bytes.Buffer, capBytes int64) *cappingWriter {
	return &cappingWriter{dst: dst, cap: capBytes}
}

func (w *cappingWriter) Write(p []byte) (int, error) {
	if w.cap <= 0 {
		w.dst.Write(p)
		return len(p), nil
	}
	remaining := w.cap - w.written
	if remaining <= 0 {
		w.truncated = true
		return len(p), nil
	}
	if int64(len(p)) > remaining {
		w.dst.Write(p[:remaining])
		w.written += remaining
		w.truncated = true
		return len(p), nil
	}
	w.dst.Write(p)
	w.written += int64(len(p))
	return len(p), nil
}
