package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"dtiestoque.org/internal/inventory"
)

var (
	// ErrInvalidTransition is returned when the modal cannot move to the requested phase.
	ErrInvalidTransition = errors.New("client: invalid modal transition")
	// ErrUnknownEquipment is returned for ids absent from the cached list.
	ErrUnknownEquipment = errors.New("client: equipment not in list")
	// ErrCanceled is returned when the user declines a confirmation.
	ErrCanceled = errors.New("client: canceled by user")
)

// Backend is the subset of the HTTP API the controller drives.
type Backend interface {
	ListEquipment(ctx context.Context) ([]inventory.Equipment, error)
	CreateEquipment(ctx context.Context, f inventory.Fields) (int64, error)
	UpdateEquipment(ctx context.Context, id int64, f inventory.Fields) (int64, error)
	DeleteEquipment(ctx context.Context, id int64) (int64, error)
	CategoryCounts(ctx context.Context) ([]inventory.CategoryCount, error)
	StatusCounts(ctx context.Context) ([]inventory.StatusCount, error)
	Counts(ctx context.Context) (inventory.Counts, error)
}

var _ Backend = (*Client)(nil)

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) bool

// Dashboard is the data behind the dashboard cards and charts.
type Dashboard struct {
	Counts     inventory.Counts
	Categories []inventory.CategoryCount
	Statuses   []inventory.StatusCount
}

// Controller owns the list screen state and mediates every server call.
type Controller struct {
	api     Backend
	notify  Notifier
	confirm ConfirmFunc
	search  *Debouncer

	mu    sync.Mutex
	state State
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

func WithNotifier(n Notifier) ControllerOption {
	return func(c *Controller) {
		if n != nil {
			c.notify = n
		}
	}
}

func WithConfirm(fn ConfirmFunc) ControllerOption {
	return func(c *Controller) {
		if fn != nil {
			c.confirm = fn
		}
	}
}

// WithSearchDelay overrides DefaultSearchDelay.
func WithSearchDelay(d time.Duration) ControllerOption {
	return func(c *Controller) { c.search = NewDebouncer(d) }
}

// NewController builds a controller with a closed modal and an empty list.
// Without WithConfirm every deletion is declined.
func NewController(api Backend, opts ...ControllerOption) *Controller {
	c := &Controller{
		api:     api,
		notify:  discardNotifier{},
		confirm: func(string) bool { return false },
		search:  NewDebouncer(DefaultSearchDelay),
		state: State{
			All:     []inventory.Equipment{},
			Visible: []inventory.Equipment{},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Close cancels a pending debounced search.
func (c *Controller) Close() {
	c.search.Stop()
}

// Load fetches the list and re-applies the current filter.
func (c *Controller) Load(ctx context.Context) error {
	items, err := c.api.ListEquipment(ctx)
	if err != nil {
		c.fail("Erro ao carregar equipamentos", err)
		return err
	}
	c.mu.Lock()
	c.state.All = items
	c.state.Visible = ApplyFilter(items, c.state.Filter)
	c.mu.Unlock()
	return nil
}

// SetFilter replaces the filter and recomputes Visible without a fetch.
func (c *Controller) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Filter = f
	c.state.Visible = ApplyFilter(c.state.All, f)
}

// ClearFilters resets every predicate so Visible equals All.
func (c *Controller) ClearFilters() {
	c.search.Stop()
	c.SetFilter(Filter{})
}

// Search updates the text predicate once input has been idle for the search delay.
// done, if non-nil, runs after the filter is applied.
func (c *Controller) Search(text string, done func()) {
	c.search.Trigger(func() {
		c.mu.Lock()
		c.state.Filter.Search = text
		c.state.Visible = ApplyFilter(c.state.All, c.state.Filter)
		c.mu.Unlock()
		if done != nil {
			done()
		}
	})
}

// OpenCreate opens an empty form.
func (c *Controller) OpenCreate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Modal != ModalClosed {
		return c.invalid(ModalOpenForCreate)
	}
	c.state.Modal = ModalOpenForCreate
	c.state.EditingID = 0
	return nil
}

// OpenEdit opens the form prefilled from the cached row id.
func (c *Controller) OpenEdit(id int64) (inventory.Equipment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Modal != ModalClosed {
		return inventory.Equipment{}, c.invalid(ModalOpenForEdit)
	}
	eq, ok := findEquipment(c.state.All, id)
	if !ok {
		return inventory.Equipment{}, fmt.Errorf("%w: %d", ErrUnknownEquipment, id)
	}
	c.state.Modal = ModalOpenForEdit
	c.state.EditingID = id
	return eq, nil
}

// Dismiss closes an open form without submitting. It is a no-op when closed.
func (c *Controller) Dismiss() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state.Modal {
	case ModalClosed:
		return nil
	case ModalOpenForCreate, ModalOpenForEdit:
		c.state.Modal = ModalClosed
		c.state.EditingID = 0
		return nil
	default:
		return c.invalid(ModalClosed)
	}
}

// Submit creates or updates depending on the open form, then closes it and refetches.
// On failure the form stays open and the list is untouched.
func (c *Controller) Submit(ctx context.Context, f inventory.Fields) error {
	c.mu.Lock()
	if c.state.Modal != ModalOpenForCreate && c.state.Modal != ModalOpenForEdit {
		err := c.invalid(ModalSubmitting)
		c.mu.Unlock()
		return err
	}
	editing := c.state.EditingID
	c.state.Modal = ModalSubmitting
	c.mu.Unlock()

	var err error
	if editing != 0 {
		_, err = c.api.UpdateEquipment(ctx, editing, f)
	} else {
		_, err = c.api.CreateEquipment(ctx, f)
	}
	if err != nil {
		c.mu.Lock()
		c.state.Modal = c.state.openState()
		c.mu.Unlock()
		c.fail("Erro ao salvar equipamento", err)
		return err
	}

	c.mu.Lock()
	c.state.Modal = ModalClosed
	c.state.EditingID = 0
	c.mu.Unlock()
	c.notify.Notify(Notification{Level: LevelInfo, Message: "Salvo com sucesso"})
	return c.Load(ctx)
}

// Delete removes row id after the user confirms, then refetches.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if !c.confirm("Confirma exclusão?") {
		return ErrCanceled
	}
	if _, err := c.api.DeleteEquipment(ctx, id); err != nil {
		c.fail("Erro ao excluir", err)
		return err
	}
	c.notify.Notify(Notification{Level: LevelInfo, Message: "Equipamento excluído"})
	return c.Load(ctx)
}

// Details returns the cached row id without a fetch.
func (c *Controller) Details(id int64) (inventory.Equipment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return findEquipment(c.state.All, id)
}

// Dashboard fetches counts, categories and statuses concurrently.
func (c *Controller) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Counts, err = c.api.Counts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Categories, err = c.api.CategoryCounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Statuses, err = c.api.StatusCounts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		c.fail("Erro ao carregar dashboard", err)
		return Dashboard{}, err
	}
	return d, nil
}

func (c *Controller) fail(msg string, err error) {
	if IsUnauthorized(err) {
		msg = "Sessão expirada. Faça login novamente."
	}
	c.notify.Notify(Notification{Level: LevelError, Message: msg, Err: err})
}

// invalid must be called with mu held.
func (c *Controller) invalid(to ModalState) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state.Modal, to)
}

func findEquipment(all []inventory.Equipment, id int64) (inventory.Equipment, bool) {
	for _, eq := range all {
		if eq.ID == id {
			return eq, true
		}
	}
	return inventory.Equipment{}, false
}
