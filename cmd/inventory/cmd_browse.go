package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"

	"dtiestoque.org/internal/client"
	"dtiestoque.org/internal/inventory"
)

// browseCmd is an interactive list with live search
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive list with live search",
	Long: `Browse the inventory interactively.

Any line is a search; results refresh once typing pauses. Commands:
  :status <STATUS>   filter by status (empty clears)
  :local <id>        filter by location (0 clears)
  :limpar            clear every filter
  :ver <id>          show details
  :excluir <id>      delete after confirmation
  :recarregar        fetch the list again
  :sair              quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func registerBrowseCommand() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	c, err := newSessionClient(cmd)
	if err != nil {
		return err
	}
	in := bufio.NewReader(cmd.InOrStdin())
	b := &browser{out: cmd.OutOrStdout(), rendered: make(chan struct{}, 1)}
	b.ctrl = newController(c, in, b.lockedWriter(), false)
	defer b.ctrl.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := b.reload(ctx); err != nil {
		return err
	}
	b.render()
	return b.loop(ctx, in)
}

type browser struct {
	ctrl *client.Controller
	out  io.Writer
	mu   sync.Mutex

	searches atomic.Int64
	applied  atomic.Int64
	rendered chan struct{}
}

func (b *browser) loop(ctx context.Context, in *bufio.Reader) error {
	for {
		line, err := in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			quit, cmdErr := b.handle(ctx, line)
			if cmdErr != nil && !errors.Is(cmdErr, client.ErrCanceled) {
				b.printf("erro: %v\n", cmdErr)
			}
			if quit {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				b.waitSearch(ctx)
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (b *browser) handle(ctx context.Context, line string) (bool, error) {
	if !strings.HasPrefix(line, ":") {
		b.search(line)
		return false, nil
	}
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "sair", "q":
		return true, nil
	case "limpar":
		b.ctrl.ClearFilters()
		b.render()
	case "status":
		f := b.ctrl.State().Filter
		f.Status = inventory.Status(strings.ToUpper(arg))
		b.ctrl.SetFilter(f)
		b.render()
	case "local":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return false, fmt.Errorf("invalid location %q", arg)
		}
		f := b.ctrl.State().Filter
		f.LocationID = nil
		if id != 0 {
			f.LocationID = &id
		}
		b.ctrl.SetFilter(f)
		b.render()
	case "ver":
		id, err := parseID(arg)
		if err != nil {
			return false, err
		}
		eq, ok := b.ctrl.Details(id)
		if !ok {
			return false, fmt.Errorf("%w: %d", client.ErrUnknownEquipment, id)
		}
		b.mu.Lock()
		renderDetails(b.out, eq)
		b.mu.Unlock()
	case "excluir":
		id, err := parseID(arg)
		if err != nil {
			return false, err
		}
		if err := b.ctrl.Delete(ctx, id); err != nil {
			return false, err
		}
		b.render()
	case "recarregar":
		if err := b.reload(ctx); err != nil {
			return false, err
		}
		b.render()
	default:
		return false, fmt.Errorf("unknown command :%s", name)
	}
	return false, nil
}

func (b *browser) reload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return b.ctrl.Load(ctx)
}

// search hands text to the debounced filter; only the last of a burst renders.
func (b *browser) search(text string) {
	gen := b.searches.Add(1)
	b.ctrl.Search(text, func() {
		b.render()
		b.applied.Store(gen)
		select {
		case b.rendered <- struct{}{}:
		default:
		}
	})
}

// waitSearch blocks until the latest search has been applied.
func (b *browser) waitSearch(ctx context.Context) {
	last := b.searches.Load()
	for b.applied.Load() != last {
		select {
		case <-b.rendered:
		case <-ctx.Done():
			return
		}
	}
}

func (b *browser) render() {
	st := b.ctrl.State()
	b.mu.Lock()
	defer b.mu.Unlock()
	renderTable(b.out, st.Visible)
	fmt.Fprintf(b.out, "%d de %d equipamentos\n", len(st.Visible), len(st.All))
}

func (b *browser) printf(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, format, args...)
}

func (b *browser) lockedWriter() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.out.Write(p)
	})
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
