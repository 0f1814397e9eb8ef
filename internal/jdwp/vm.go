package jdwp

import (
	"context"
	"net"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// LoadedClass is one entry of VirtualMachine.AllClasses.
type LoadedClass struct {
	TypeTag   byte
	ID        ReferenceTypeID
	Signature string
	Status    int32
}

// ThreadInfo is one entry of VirtualMachine.AllThreads plus its name,
// fetched lazily by the caller via ThreadName.
type ThreadInfo struct {
	ID ThreadID
}

// Resume resumes every suspended thread in the target VM.
func (c *Conn) Resume(ctx context.Context) error {
	_, err := c.command(ctx, csVirtualMachine, cmdVMResume, nil)
	return err
}

// Dispose releases the target VM's debug session without terminating it.
func (c *Conn) Dispose(ctx context.Context) error {
	_, err := c.command(ctx, csVirtualMachine, cmdVMDispose, nil)
	return err
}

// Exit terminates the target VM with the given exit code.
func (c *Conn) Exit(ctx context.Context, code int32) error {
	e := c.enc()
	e.u32(uint32(code))
	_, err := c.command(ctx, csVirtualMachine, cmdVMExit, e.bytes())
	return err
}

// CreateString mirrors a Go string into the target VM as a new
// java.lang.String instance, used when mutating a string-typed stack
// slot.
func (c *Conn) CreateString(ctx context.Context, s string) (StringID, error) {
	e := c.enc()
	e.str(s)
	d, err := c.command(ctx, csVirtualMachine, cmdVMCreateString, e.bytes())
	if err != nil {
		return 0, err
	}
	return d.objectID()
}

// AllClasses returns every loaded reference type.
func (c *Conn) AllClasses(ctx context.Context) ([]LoadedClass, error) {
	d, err := c.command(ctx, csVirtualMachine, cmdVMAllClasses, nil)
	if err != nil {
		return nil, err
	}
	count, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]LoadedClass, 0, count)
	for i := uint32(0); i < count; i++ {
		tag, err := d.u8()
		if err != nil {
			return nil, err
		}
		id, err := d.refTypeID()
		if err != nil {
			return nil, err
		}
		sig, err := d.str()
		if err != nil {
			return nil, err
		}
		status, err := d.u32()
		if err != nil {
			return nil, err
		}
		out = append(out, LoadedClass{TypeTag: tag, ID: id, Signature: sig, Status: int32(status)})
	}
	return out, nil
}

// AllThreads returns every live thread in the target VM.
func (c *Conn) AllThreads(ctx context.Context) ([]ThreadID, error) {
	d, err := c.command(ctx, csVirtualMachine, cmdVMAllThreads, nil)
	if err != nil {
		return nil, err
	}
	count, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]ThreadID, 0, count)
	for i := uint32(0); i < count; i++ {
		id, err := d.objectID()
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// ThreadName fetches a thread's human-readable name.
func (c *Conn) ThreadName(ctx context.Context, thread ThreadID) (string, error) {
	e := c.enc()
	e.objectID(thread)
	d, err := c.command(ctx, csThreadReference, cmdThreadRefName, e.bytes())
	if err != nil {
		return "", err
	}
	return d.str()
}

// dialTimeout bounds how long Attach waits for the target VM's JDWP
// listener to accept a connection.
const dialTimeout = 10 * time.Second

// Attach connects to a VM already listening for debugger connections at
// host:port (the `:attach` operation's usual path — a VM started with
// `-agentlib:jdwp=...,server=y,suspend=y` and a fixed address).
func Attach(ctx context.Context, host string, port int) (*Conn, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return Dial(ctx, conn)
}

// SpawnedVM bundles a launched JVM process with its JDWP connection, so
// the debug controller can wait on the process exiting in addition to
// VMDeath/VMDisconnect events.
type SpawnedVM struct {
	Process *exec.Cmd
	*Conn
}

// Start launches commandLine with a JDWP agent listening on an
// OS-assigned loopback port, waits for it to start listening (parsed from
// its "Listening for transport dt_socket at address: PORT" stderr line,
// the HotSpot agent's documented startup message), and attaches as the
// debugger client.
func Start(ctx context.Context, commandLine []string) (*SpawnedVM, error) {
	if len(commandLine) == 0 {
		return nil, errNoCommand
	}
	agentArg := "-agentlib:jdwp=transport=dt_socket,server=y,suspend=y,address=0,quiet=n"
	args := append([]string{commandLine[0], agentArg}, commandLine[1:]...)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	port, readErr := readListenPort(stderr)
	if readErr != nil {
		cmd.Process.Kill()
		return nil, readErr
	}

	conn, err := Attach(ctx, "127.0.0.1", port)
	if err != nil {
		cmd.Process.Kill()
		return nil, err
	}
	return &SpawnedVM{Process: cmd, Conn: conn}, nil
}

func readListenPort(r interface{ Read([]byte) (int, error) }) (int, error) {
	buf := make([]byte, 4096)
	var acc strings.Builder
	deadline := time.Now().Add(dialTimeout)
	for time.Now().Before(deadline) {
		n, err := r.Read(buf)
		if n > 0 {
			acc.Write(buf[:n])
			if idx := strings.Index(acc.String(), "address: "); idx >= 0 {
				rest := acc.String()[idx+len("address: "):]
				rest = strings.TrimSpace(strings.SplitN(rest, "\n", 2)[0])
				return strconv.Atoi(rest)
			}
		}
		if err != nil {
			return 0, err
		}
	}
	return 0, errListenTimeout
}

var (
	errNoCommand     = &simpleError{"jdwp: empty command line"}
	errListenTimeout = &simpleError{"jdwp: timed out waiting for VM to listen"}
)

type simpleError struct{ msg string }

func (e *simpleError) Error() string { return e.msg }
