package cosmetic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/event"
	"github.com/osse101/cosmetics/internal/logger"
	"github.com/osse101/cosmetics/internal/repository"
	"github.com/osse101/cosmetics/internal/unlock"
)

// Catalog is the read-only item lookup the service depends on.
// *catalog.Catalog satisfies it.
type Catalog interface {
	BuildIndex()
	Lookup(cat domain.Category, id domain.ItemID) (domain.Definition, bool)
	DefaultFor(cat domain.Category) (domain.Definition, bool)
	Items(cat domain.Category) []domain.Definition
}

// Service owns one player's cosmetic state: ownership, selection and user name.
//
// Every mutation is applied to a copy of the state and saved before it becomes
// visible. A failed save returns a StorageFailure error and leaves both the
// in-memory state and the event stream untouched.
type Service interface {
	Initialize(ctx context.Context) error
	IsInitialized() bool
	PlayerID() string

	Select(ctx context.Context, cat domain.Category, id domain.ItemID) error
	Unlock(ctx context.Context, cat domain.Category, id domain.ItemID) error
	UnlockAndSelect(ctx context.Context, cat domain.Category, id domain.ItemID) error
	GrantOwned(ctx context.Context, cat domain.Category, id domain.ItemID, autoSelectIfNone bool) error
	RevokeOwned(ctx context.Context, cat domain.Category, id domain.ItemID) error
	UpdateUserName(ctx context.Context, name string) error

	State(ctx context.Context, cat domain.Category, id domain.ItemID) (domain.OwnershipState, error)
	Items(ctx context.Context, cat domain.Category) ([]ItemView, error)
	Snapshot(ctx context.Context) (domain.UserState, error)
	Selected(ctx context.Context, cat domain.Category) (domain.ItemID, error)
	SelectedDefinition(ctx context.Context, cat domain.Category) (domain.Definition, error)
}

// ItemView is a catalog entry together with its ownership state for one player
type ItemView struct {
	domain.Definition
	State domain.OwnershipState `json:"state"`
}

// Option configures a service
type Option func(*service)

// WithPlayerID sets the player id carried in event payloads and logs
func WithPlayerID(playerID string) Option {
	return func(s *service) {
		s.playerID = playerID
	}
}

// WithDefaultUserName overrides the name assigned when the stored name is blank
func WithDefaultUserName(name string) Option {
	return func(s *service) {
		if strings.TrimSpace(name) != "" {
			s.defaultUserName = name
		}
	}
}

type service struct {
	catalog Catalog
	storage repository.UserState
	policy  unlock.Policy
	bus     event.Bus

	playerID        string
	defaultUserName string

	mu          sync.Mutex
	state       domain.UserState
	initialized bool
}

// NewService wires a service. Every collaborator is mandatory.
func NewService(catalog Catalog, storage repository.UserState, policy unlock.Policy, bus event.Bus, opts ...Option) (Service, error) {
	switch {
	case catalog == nil:
		return nil, errors.New(ErrMsgNilCatalog)
	case storage == nil:
		return nil, errors.New(ErrMsgNilStorage)
	case policy == nil:
		return nil, errors.New(ErrMsgNilPolicy)
	case bus == nil:
		return nil, errors.New(ErrMsgNilBus)
	}

	s := &service{
		catalog:         catalog,
		storage:         storage,
		policy:          policy,
		bus:             bus,
		defaultUserName: domain.DefaultUserName,
		state:           domain.NewUserState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) PlayerID() string {
	return s.playerID
}

func (s *service) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Initialize loads the stored state, grants every free and default item,
// repairs both selections and saves the result. A load failure falls back to
// an empty state; a save failure is only logged.
func (s *service) Initialize(ctx context.Context) error {
	log := logger.FromContext(ctx).With("player_id", s.playerID)

	s.mu.Lock()
	s.catalog.BuildIndex()

	state, err := s.storage.Load(ctx)
	if err != nil {
		log.Warn(LogMsgLoadFailed, "error", err)
		state = domain.NewUserState()
	}
	s.prepare(&state)

	next := state
	next.Revision++
	if err := s.storage.Save(ctx, next); err != nil {
		log.Warn(LogMsgInitSaveFailed, "error", err)
		if fresh, ok := s.reloadIfStale(ctx, err); ok {
			state = fresh
		}
	} else {
		state = next
	}

	s.state = state
	s.initialized = true
	s.mu.Unlock()

	log.Info(LogMsgInitialized,
		"selected_avatar", state.SelectedAvatarID,
		"selected_frame", state.SelectedFrameID,
		"owned_avatars", len(state.OwnedAvatarIDs),
		"owned_frames", len(state.OwnedFrameIDs))

	s.publish(ctx, event.NewInitializedEvent(s.playerID, state))
	return nil
}

// prepare grants every item whose indexed definition is free or default,
// repairs both selections and fills in a blank user name. Duplicate catalog
// ids are judged by the definition the index kept.
func (s *service) prepare(state *domain.UserState) {
	state.Normalize()
	for _, cat := range domain.Categories {
		for _, listed := range s.catalog.Items(cat) {
			def, ok := s.catalog.Lookup(cat, listed.ID)
			if ok && (def.UnlockType.IsGranted() || def.IsDefault) {
				state.AddOwned(cat, def.ID)
			}
		}
		s.repairSelection(state, cat)
	}
	if strings.TrimSpace(state.UserName) == "" {
		state.UserName = s.defaultUserName
	}
}

// reloadIfStale reads the current stored state after a save lost a revision
// race, so the next operation builds on it instead of failing again
func (s *service) reloadIfStale(ctx context.Context, saveErr error) (domain.UserState, bool) {
	if !errors.Is(saveErr, repository.ErrStaleState) {
		return domain.UserState{}, false
	}
	fresh, err := s.storage.Load(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgReloadFailed, "player_id", s.playerID, "error", err)
		return domain.UserState{}, false
	}
	s.prepare(&fresh)
	logger.FromContext(ctx).Info(LogMsgStateReloaded, "player_id", s.playerID, "revision", fresh.Revision)
	return fresh, true
}

// repairSelection points the slot at a valid owned item: the catalog default
// when owned, else the first owned id present in the catalog, else empty.
// It reports whether the slot changed.
func (s *service) repairSelection(state *domain.UserState, cat domain.Category) bool {
	current := state.Selected(cat)
	if current.Valid() && state.Owns(cat, current) {
		if _, ok := s.catalog.Lookup(cat, current); ok {
			return false
		}
	}

	var next domain.ItemID
	if def, ok := s.catalog.DefaultFor(cat); ok && state.Owns(cat, def.ID) {
		next = def.ID
	} else {
		for _, id := range state.Owned(cat) {
			if _, ok := s.catalog.Lookup(cat, id); ok {
				next = id
				break
			}
		}
	}

	state.SetSelected(cat, next)
	return next != current
}

// Select makes an owned item the current selection of its category
func (s *service) Select(ctx context.Context, cat domain.Category, id domain.ItemID) error {
	s.mu.Lock()
	events, err := s.selectLocked(ctx, cat, id)
	s.mu.Unlock()

	s.publish(ctx, events...)
	return err
}

func (s *service) selectLocked(ctx context.Context, cat domain.Category, id domain.ItemID) ([]event.Event, error) {
	if _, err := s.lookupLocked(cat, id); err != nil {
		return nil, err
	}
	if !s.state.Owns(cat, id) {
		return nil, domain.NewError(domain.KindNotOwned, fmt.Sprintf(MsgNotOwned, cat))
	}
	if s.state.Selected(cat) == id {
		return nil, nil
	}

	next := s.state.Clone()
	next.SetSelected(cat, id)
	if err := s.commitLocked(ctx, next, OpSelect); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgSelectionChanged, "player_id", s.playerID, "category", cat, "item_id", id)
	return []event.Event{event.NewSelectionChangedEvent(s.playerID, cat, id)}, nil
}

// Unlock runs the unlock policy for an item and grants ownership on success
func (s *service) Unlock(ctx context.Context, cat domain.Category, id domain.ItemID) error {
	s.mu.Lock()
	events, err := s.unlockLocked(ctx, cat, id)
	s.mu.Unlock()

	s.publish(ctx, events...)
	return err
}

func (s *service) unlockLocked(ctx context.Context, cat domain.Category, id domain.ItemID) ([]event.Event, error) {
	def, err := s.lookupLocked(cat, id)
	if err != nil {
		return nil, err
	}
	if s.state.Owns(cat, id) {
		return nil, nil
	}

	log := logger.FromContext(ctx).With("player_id", s.playerID, "category", cat, "item_id", id)

	if ok, reason := s.policy.CanUnlock(ctx, def, s.state.Clone()); !ok {
		if reason == "" {
			reason = MsgNotUnlockableDefault
		}
		log.Debug(LogMsgUnlockRefused, "reason", reason)
		return nil, domain.NewError(domain.KindNotUnlockable, reason)
	}
	if err := s.policy.TryUnlock(ctx, def, s.state.Clone()); err != nil {
		return nil, domain.WrapError(domain.KindUnlockProviderFailure, MsgUnlockFailedDefault, err)
	}

	next := s.state.Clone()
	next.AddOwned(cat, id)
	if err := s.commitLocked(ctx, next, OpUnlock); err != nil {
		return nil, err
	}

	log.Info(LogMsgItemUnlocked, "unlock_type", def.UnlockType.String())
	return []event.Event{event.NewInventoryChangedEvent(s.playerID, cat, id, true, domain.InventorySourceUnlock)}, nil
}

// UnlockAndSelect selects an owned item, or unlocks it first and selects it
// only when the unlock granted ownership.
func (s *service) UnlockAndSelect(ctx context.Context, cat domain.Category, id domain.ItemID) error {
	s.mu.Lock()
	events, err := s.unlockAndSelectLocked(ctx, cat, id)
	s.mu.Unlock()

	s.publish(ctx, events...)
	return err
}

func (s *service) unlockAndSelectLocked(ctx context.Context, cat domain.Category, id domain.ItemID) ([]event.Event, error) {
	if s.initialized && id.Valid() && s.state.Owns(cat, id) {
		return s.selectLocked(ctx, cat, id)
	}

	unlocked, err := s.unlockLocked(ctx, cat, id)
	if err != nil {
		return nil, err
	}
	if !s.state.Owns(cat, id) {
		return unlocked, domain.NewError(domain.KindNotOwned, MsgUnlockDidNotGrant)
	}
	selected, err := s.selectLocked(ctx, cat, id)
	return append(unlocked, selected...), err
}

// GrantOwned marks an item owned without consulting the unlock policy.
// With autoSelectIfNone the item is also selected when the slot is empty.
func (s *service) GrantOwned(ctx context.Context, cat domain.Category, id domain.ItemID, autoSelectIfNone bool) error {
	s.mu.Lock()
	events, err := s.grantLocked(ctx, cat, id, autoSelectIfNone)
	s.mu.Unlock()

	s.publish(ctx, events...)
	return err
}

func (s *service) grantLocked(ctx context.Context, cat domain.Category, id domain.ItemID, autoSelectIfNone bool) ([]event.Event, error) {
	if _, err := s.lookupLocked(cat, id); err != nil {
		return nil, err
	}

	next := s.state.Clone()
	var events []event.Event
	if next.AddOwned(cat, id) {
		events = append(events, event.NewInventoryChangedEvent(s.playerID, cat, id, true, domain.InventorySourceGrant))
	}
	if autoSelectIfNone && !next.Selected(cat).Valid() {
		next.SetSelected(cat, id)
		events = append(events, event.NewSelectionChangedEvent(s.playerID, cat, id))
	}
	if len(events) == 0 {
		return nil, nil
	}

	if err := s.commitLocked(ctx, next, OpGrant); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info(LogMsgItemGranted, "player_id", s.playerID, "category", cat, "item_id", id)
	return events, nil
}

// RevokeOwned removes an item from the owned list. Free and default items are
// refused since Initialize would grant them back. Revoking the selected item
// repairs the slot.
func (s *service) RevokeOwned(ctx context.Context, cat domain.Category, id domain.ItemID) error {
	s.mu.Lock()
	events, err := s.revokeLocked(ctx, cat, id)
	s.mu.Unlock()

	s.publish(ctx, events...)
	return err
}

func (s *service) revokeLocked(ctx context.Context, cat domain.Category, id domain.ItemID) ([]event.Event, error) {
	def, err := s.lookupLocked(cat, id)
	if err != nil {
		return nil, err
	}
	if def.UnlockType.IsGranted() || def.IsDefault {
		return nil, domain.NewError(domain.KindInvalidID, MsgRevokeGranted)
	}

	next := s.state.Clone()
	if !next.RemoveOwned(cat, id) {
		return nil, nil
	}
	events := []event.Event{event.NewInventoryChangedEvent(s.playerID, cat, id, false, domain.InventorySourceRevoke)}
	if s.repairSelection(&next, cat) {
		events = append(events, event.NewSelectionChangedEvent(s.playerID, cat, next.Selected(cat)))
	}

	if err := s.commitLocked(ctx, next, OpRevoke); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info(LogMsgItemRevoked, "player_id", s.playerID, "category", cat, "item_id", id)
	return events, nil
}

// UpdateUserName trims and NFC-normalizes name before storing it
func (s *service) UpdateUserName(ctx context.Context, name string) error {
	s.mu.Lock()
	events, err := s.updateUserNameLocked(ctx, name)
	s.mu.Unlock()

	s.publish(ctx, events...)
	return err
}

func (s *service) updateUserNameLocked(ctx context.Context, name string) ([]event.Event, error) {
	if !s.initialized {
		return nil, domain.NewError(domain.KindNotInitialized, MsgNotInitialized)
	}
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return nil, domain.NewError(domain.KindInvalidID, MsgEmptyUserName)
	}
	if name == s.state.UserName {
		return nil, nil
	}

	next := s.state.Clone()
	next.UserName = name
	if err := s.commitLocked(ctx, next, OpUserName); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info(LogMsgUserNameChanged, "player_id", s.playerID)
	return []event.Event{event.NewUserNameChangedEvent(s.playerID, name)}, nil
}

// State derives the ownership state of one item. Unknown ids yield
// StateUnknown together with the error explaining why.
func (s *service) State(ctx context.Context, cat domain.Category, id domain.ItemID) (domain.OwnershipState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, err := s.lookupLocked(cat, id)
	if err != nil {
		return domain.StateUnknown, err
	}
	return s.stateOfLocked(ctx, cat, def), nil
}

func (s *service) stateOfLocked(ctx context.Context, cat domain.Category, def domain.Definition) domain.OwnershipState {
	owned := s.state.Owns(cat, def.ID)
	switch {
	case owned && s.state.Selected(cat) == def.ID:
		return domain.StateSelected
	case owned:
		return domain.StateOwned
	}
	if ok, _ := s.policy.CanUnlock(ctx, def, s.state.Clone()); ok {
		return domain.StateUnlockable
	}
	return domain.StateLocked
}

// Items lists the catalog of cat in order with the player's ownership states
func (s *service) Items(ctx context.Context, cat domain.Category) ([]ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil, domain.NewError(domain.KindNotInitialized, MsgNotInitialized)
	}
	defs := s.catalog.Items(cat)
	views := make([]ItemView, 0, len(defs))
	for _, def := range defs {
		if !def.ID.Valid() {
			continue
		}
		views = append(views, ItemView{Definition: def, State: s.stateOfLocked(ctx, cat, def)})
	}
	return views, nil
}

// Snapshot returns a copy of the full user state
func (s *service) Snapshot(_ context.Context) (domain.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return domain.UserState{}, domain.NewError(domain.KindNotInitialized, MsgNotInitialized)
	}
	return s.state.Clone(), nil
}

// Selected returns the selected id of cat. An empty slot is an InvalidId error.
func (s *service) Selected(_ context.Context, cat domain.Category) (domain.ItemID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selectedLocked(cat)
}

func (s *service) selectedLocked(cat domain.Category) (domain.ItemID, error) {
	if !s.initialized {
		return "", domain.NewError(domain.KindNotInitialized, MsgNotInitialized)
	}
	id := s.state.Selected(cat)
	if !id.Valid() {
		return "", domain.NewError(domain.KindInvalidID, fmt.Sprintf(MsgNothingSelected, cat))
	}
	return id, nil
}

// SelectedDefinition resolves the selected id of cat against the catalog
func (s *service) SelectedDefinition(_ context.Context, cat domain.Category) (domain.Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.selectedLocked(cat)
	if err != nil {
		return domain.Definition{}, err
	}
	def, ok := s.catalog.Lookup(cat, id)
	if !ok {
		return domain.Definition{}, domain.NewError(domain.KindNotFoundInDatabase, fmt.Sprintf(MsgNotInCatalogFmt, cat, id))
	}
	return def, nil
}

// lookupLocked runs the checks shared by every item operation: initialized,
// valid id and present in the catalog.
func (s *service) lookupLocked(cat domain.Category, id domain.ItemID) (domain.Definition, error) {
	if !s.initialized {
		return domain.Definition{}, domain.NewError(domain.KindNotInitialized, MsgNotInitialized)
	}
	if !id.Valid() {
		return domain.Definition{}, domain.NewError(domain.KindInvalidID, MsgInvalidID)
	}
	def, ok := s.catalog.Lookup(cat, id)
	if !ok {
		return domain.Definition{}, domain.NewError(domain.KindNotFoundInDatabase, fmt.Sprintf(MsgNotInCatalogFmt, cat, id))
	}
	return def, nil
}

// commitLocked saves next one revision ahead and swaps it in only when the
// save succeeded. A stale save swaps in the stored state instead.
func (s *service) commitLocked(ctx context.Context, next domain.UserState, op string) error {
	next.Revision = s.state.Revision + 1
	if err := s.storage.Save(ctx, next); err != nil {
		logger.FromContext(ctx).Warn(LogMsgSaveFailed, "player_id", s.playerID, "op", op, "error", err)
		if fresh, ok := s.reloadIfStale(ctx, err); ok {
			s.state = fresh
		}
		return domain.WrapError(domain.KindStorageFailure, fmt.Sprintf(MsgSaveFailedFmt, op), err)
	}
	s.state = next
	return nil
}

// publish runs outside the state lock so handlers may call back into the service
func (s *service) publish(ctx context.Context, events ...event.Event) {
	for _, evt := range events {
		if err := s.bus.Publish(ctx, evt); err != nil {
			logger.FromContext(ctx).Error(LogMsgPublishFailed, "player_id", s.playerID, "type", evt.Type, "error", err)
		}
	}
}
