package collector

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/process"
)

// launchInitWait is how long a launched program gets to initialize
// before we check it is still alive and start sampling it.
const launchInitWait = 3 * time.Second

// HostTarget samples CPU usage of the whole machine.
type HostTarget struct{}

func (HostTarget) Describe() string { return "system" }

func (HostTarget) Name() string { return "system" }

func (HostTarget) CPUPercent() (float64, error) {
	pcts, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, fmt.Errorf("no cpu reading available")
	}
	return pcts[0], nil
}

// ProcessTarget samples CPU usage of a single process.
type ProcessTarget struct {
	proc *process.Process
	name string
}

func (t *ProcessTarget) Describe() string {
	return fmt.Sprintf("%s (PID %d)", t.name, t.proc.Pid)
}

func (t *ProcessTarget) CPUPercent() (float64, error) {
	return t.proc.Percent(0)
}

// Name returns the bare process name.
func (t *ProcessTarget) Name() string { return t.name }

// PID returns the target's process ID.
func (t *ProcessTarget) PID() int32 { return t.proc.Pid }

// FindByPID attaches to an already running process by its PID.
func FindByPID(pid int) (*ProcessTarget, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("no process with PID %d: %w", pid, err)
	}
	name, err := proc.Name()
	if err != nil {
		name = fmt.Sprintf("pid-%d", pid)
	}
	return &ProcessTarget{proc: proc, name: name}, nil
}

// FindByName scans running processes for an exact name match and
// attaches to the first one found.
func FindByName(name string) (*ProcessTarget, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	for _, p := range procs {
		n, err := p.Name()
		if err != nil {
			continue
		}
		if n == name {
			return &ProcessTarget{proc: p, name: name}, nil
		}
	}
	return nil, fmt.Errorf("no running process named %q", name)
}

// Launched is a program the collector started itself. Stop tears it
// down when collection ends.
type Launched struct {
	*ProcessTarget
	cmd *exec.Cmd
}

// LaunchProgram starts argv[0] with the remaining arguments, waits a
// short initialization period, and attaches to it. The working
// directory is set to the program's own directory so it can find
// resources next to the binary.
func LaunchProgram(argv []string) (*Launched, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("no program given")
	}
	path, err := filepath.Abs(argv[0])
	if err != nil {
		return nil, fmt.Errorf("resolve program path: %w", err)
	}
	cmd := exec.Command(path, argv[1:]...)
	cmd.Dir = filepath.Dir(path)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", path, err)
	}

	time.Sleep(launchInitWait)

	pid := int32(cmd.Process.Pid)
	alive, err := process.PidExists(pid)
	if err != nil || !alive {
		cmd.Wait()
		return nil, fmt.Errorf("program %s exited during startup", path)
	}
	proc, err := process.NewProcess(pid)
	if err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, fmt.Errorf("attach to launched program: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Launched{
		ProcessTarget: &ProcessTarget{proc: proc, name: name},
		cmd:           cmd,
	}, nil
}

// Stop asks the launched program to terminate, escalating to a kill if
// it ignores the request.
func (l *Launched) Stop() {
	if l.cmd == nil || l.cmd.Process == nil {
		return
	}
	l.cmd.Process.Signal(syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		l.cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		l.cmd.Process.Kill()
		<-done
	}
}
