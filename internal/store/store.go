// Package store holds the task board: statuses own goals, goals own tasks.
//
// A Store is an explicitly owned instance. Entities are addressed by stable
// UUIDs through an index of node pointers, so inserting elsewhere on the board
// never invalidates a reference. Index-path reads are kept for list rendering
// and are bounds-checked. Every successful mutation publishes exactly one typed
// Event to subscribers.
package store

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/tasquest/internal/health"
	"github.com/tgienger/tasquest/internal/models"
)

type statusNode struct {
	id    uuid.UUID
	name  string
	goals []*goalNode
}

type goalNode struct {
	goal   models.Goal // Tasks is always nil here; tasks live in the nodes below
	tasks  []*taskNode
	status *statusNode
}

type taskNode struct {
	task models.Task
	goal *goalNode
}

// Store is safe for concurrent use. Reads take a shared lock; mutations take
// the exclusive lock and publish their event after releasing it.
type Store struct {
	mu       sync.RWMutex
	statuses []*statusNode
	byStatus map[uuid.UUID]*statusNode
	byGoal   map[uuid.UUID]*goalNode
	byTask   map[uuid.UUID]*taskNode
	tags     map[string]models.Tag

	events broadcaster
	clock  func() time.Time
	newID  func() uuid.UUID
	log    *slog.Logger
}

// Option customizes Store construction
type Option func(*Store)

// WithClock overrides the time source used for CreatedAt/UpdatedAt
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides how new entity IDs are minted
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		byStatus: map[uuid.UUID]*statusNode{},
		byGoal:   map[uuid.UUID]*goalNode{},
		byTask:   map[uuid.UUID]*taskNode{},
		tags:     map[string]models.Tag{},
		clock:    time.Now,
		newID:    uuid.New,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Subscribe registers fn for every future event. A nil fn is ignored and
// gets an inert subscription.
func (s *Store) Subscribe(fn Listener) Subscription {
	if fn == nil {
		return Subscription{}
	}
	entry := s.events.add(fn)
	return Subscription{
		entry:  entry,
		cancel: func() { s.events.remove(entry) },
	}
}

// Unsubscribe stops delivery to sub
func (s *Store) Unsubscribe(sub Subscription) {
	s.events.remove(sub.entry)
}

func (s *Store) emit(kind EventKind, id uuid.UUID) {
	s.log.Debug("store changed", "kind", kind.String(), "id", id)
	s.events.publish(Event{Kind: kind, ID: id})
}

// Path addresses a task by its position on the board
type Path struct {
	Status int
	Goal   int
	Task   int
}

// Reads

// Statuses returns a deep snapshot of the whole board
func (s *Store) Statuses() []models.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Status, len(s.statuses))
	for i, st := range s.statuses {
		out[i] = st.snapshot()
	}
	return out
}

// StatusAt returns the status at index si
func (s *Store) StatusAt(si int) (models.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if si < 0 || si >= len(s.statuses) {
		return models.Status{}, &IndexError{Path: []int{si}}
	}
	return s.statuses[si].snapshot(), nil
}

// GoalAt returns goal gi of status si
func (s *Store) GoalAt(si, gi int) (models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, err := s.goalAt(si, gi)
	if err != nil {
		return models.Goal{}, err
	}
	return g.snapshot(), nil
}

// TaskAt returns task ti of goal gi of status si
func (s *Store) TaskAt(si, gi, ti int) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, err := s.goalAt(si, gi)
	if err != nil {
		return models.Task{}, err
	}
	if ti < 0 || ti >= len(g.tasks) {
		return models.Task{}, &IndexError{Path: []int{si, gi, ti}}
	}
	return g.tasks[ti].task.Clone(), nil
}

func (s *Store) goalAt(si, gi int) (*goalNode, error) {
	if si < 0 || si >= len(s.statuses) {
		return nil, &IndexError{Path: []int{si, gi}}
	}
	st := s.statuses[si]
	if gi < 0 || gi >= len(st.goals) {
		return nil, &IndexError{Path: []int{si, gi}}
	}
	return st.goals[gi], nil
}

// Status looks a status up by ID
func (s *Store) Status(id uuid.UUID) (models.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.byStatus[id]
	if !ok {
		return models.Status{}, notFound("status", id)
	}
	return st.snapshot(), nil
}

// Goal looks a goal up by ID
func (s *Store) Goal(id uuid.UUID) (models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.byGoal[id]
	if !ok {
		return models.Goal{}, notFound("goal", id)
	}
	return g.snapshot(), nil
}

// Task looks a task up by ID
func (s *Store) Task(id uuid.UUID) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byTask[id]
	if !ok {
		return models.Task{}, notFound("task", id)
	}
	return t.task.Clone(), nil
}

// VisibleTasks returns the goal's tasks that are not in the trash
func (s *Store) VisibleTasks(goalID uuid.UUID) ([]models.Task, error) {
	g, err := s.Goal(goalID)
	if err != nil {
		return nil, err
	}
	return g.VisibleTasks(), nil
}

// Locate turns a task ID back into its current index path
func (s *Store) Locate(taskID uuid.UUID) (Path, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byTask[taskID]
	if !ok {
		return Path{}, notFound("task", taskID)
	}
	p := Path{Status: -1, Goal: -1, Task: -1}
	for i, st := range s.statuses {
		if st == t.goal.status {
			p.Status = i
			break
		}
	}
	for i, g := range t.goal.status.goals {
		if g == t.goal {
			p.Goal = i
			break
		}
	}
	for i, n := range t.goal.tasks {
		if n == t {
			p.Task = i
			break
		}
	}
	return p, nil
}

// Tags returns every distinct tag on the board, sorted by name
func (s *Store) Tags() []models.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Tag looks a tag up by name
func (s *Store) Tag(name string) (models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tags[name]
	if !ok {
		return models.Tag{}, &NotFoundError{Kind: "tag", Key: name}
	}
	return t, nil
}

// Mutations

// GoalInput describes a goal to create
type GoalInput struct {
	Name      string
	DueDate   time.Time
	IsStarred bool
}

// TaskInput describes a task to create
type TaskInput struct {
	Name          string
	Description   string
	DueDate       time.Time
	CurrentHealth float64
	MaxHealth     float64
	Tags          []models.Tag
}

// TaskPatch edits a task; nil fields are left unchanged
type TaskPatch struct {
	Name          *string
	Description   *string
	DueDate       *time.Time
	CurrentHealth *float64
	MaxHealth     *float64
	Tags          *[]models.Tag
}

func (p TaskPatch) empty() bool {
	return p.Name == nil && p.Description == nil && p.DueDate == nil &&
		p.CurrentHealth == nil && p.MaxHealth == nil && p.Tags == nil
}

// CreateStatus appends a new status column
func (s *Store) CreateStatus(name string) (models.Status, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Status{}, invalidf("status name is required")
	}
	s.mu.Lock()
	st := &statusNode{id: s.newID(), name: name}
	s.statuses = append(s.statuses, st)
	s.byStatus[st.id] = st
	out := st.snapshot()
	s.mu.Unlock()

	s.emit(StatusCreated, out.ID)
	return out, nil
}

// CreateGoal appends a goal to a status
func (s *Store) CreateGoal(statusID uuid.UUID, in GoalInput) (models.Goal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Goal{}, invalidf("goal name is required")
	}
	s.mu.Lock()
	st, ok := s.byStatus[statusID]
	if !ok {
		s.mu.Unlock()
		return models.Goal{}, notFound("status", statusID)
	}
	g := &goalNode{
		goal: models.Goal{
			ID:        s.newID(),
			Name:      name,
			DueDate:   in.DueDate,
			IsStarred: in.IsStarred,
		},
		status: st,
	}
	st.goals = append(st.goals, g)
	s.byGoal[g.goal.ID] = g
	out := g.snapshot()
	s.mu.Unlock()

	s.emit(GoalCreated, out.ID)
	return out, nil
}

// CreateTask appends a visible task to a goal
func (s *Store) CreateTask(goalID uuid.UUID, in TaskInput) (models.Task, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Task{}, invalidf("task name is required")
	}
	if err := health.Validate(in.CurrentHealth, in.MaxHealth); err != nil {
		return models.Task{}, err
	}
	tagList, err := normalizeTags(in.Tags)
	if err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	g, ok := s.byGoal[goalID]
	if !ok {
		s.mu.Unlock()
		return models.Task{}, notFound("goal", goalID)
	}
	now := s.clock()
	n := &taskNode{
		task: models.Task{
			ID:            s.newID(),
			Name:          name,
			Description:   strings.TrimSpace(in.Description),
			DueDate:       in.DueDate,
			CreatedAt:     now,
			UpdatedAt:     now,
			CurrentHealth: in.CurrentHealth,
			MaxHealth:     in.MaxHealth,
			IsVisible:     true,
			Tags:          s.registerTags(tagList),
		},
		goal: g,
	}
	g.tasks = append(g.tasks, n)
	s.byTask[n.task.ID] = n
	out := n.task.Clone()
	s.mu.Unlock()

	s.emit(TaskCreated, out.ID)
	return out, nil
}

// UpdateTask applies a patch. Health is validated against the patched values.
func (s *Store) UpdateTask(id uuid.UUID, p TaskPatch) (models.Task, error) {
	if p.empty() {
		return models.Task{}, invalidf("empty patch")
	}
	var name, desc string
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
		if name == "" {
			return models.Task{}, invalidf("task name is required")
		}
	}
	if p.Description != nil {
		desc = strings.TrimSpace(*p.Description)
	}
	var tagList []models.Tag
	if p.Tags != nil {
		var err error
		if tagList, err = normalizeTags(*p.Tags); err != nil {
			return models.Task{}, err
		}
	}

	s.mu.Lock()
	n, ok := s.byTask[id]
	if !ok {
		s.mu.Unlock()
		return models.Task{}, notFound("task", id)
	}
	cur, maxHealth := n.task.CurrentHealth, n.task.MaxHealth
	if p.CurrentHealth != nil {
		cur = *p.CurrentHealth
	}
	if p.MaxHealth != nil {
		maxHealth = *p.MaxHealth
	}
	if err := health.Validate(cur, maxHealth); err != nil {
		s.mu.Unlock()
		return models.Task{}, err
	}

	t := &n.task
	if p.Name != nil {
		t.Name = name
	}
	if p.Description != nil {
		t.Description = desc
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Tags != nil {
		t.Tags = s.registerTags(tagList)
		s.pruneTags()
	}
	t.CurrentHealth, t.MaxHealth = cur, maxHealth
	t.UpdatedAt = s.clock()
	out := t.Clone()
	s.mu.Unlock()

	s.emit(TaskUpdated, id)
	return out, nil
}

// ToggleStarred flips a goal's star and nothing else
func (s *Store) ToggleStarred(goalID uuid.UUID) error {
	s.mu.Lock()
	g, ok := s.byGoal[goalID]
	if !ok {
		s.mu.Unlock()
		return notFound("goal", goalID)
	}
	g.goal.IsStarred = !g.goal.IsStarred
	s.mu.Unlock()

	s.emit(GoalStarToggled, goalID)
	return nil
}

// TrashTask hides a task. Trashing a trashed task succeeds without an event.
func (s *Store) TrashTask(id uuid.UUID) error {
	return s.setVisible(id, false, TaskTrashed)
}

// RestoreTask brings a task back from the trash
func (s *Store) RestoreTask(id uuid.UUID) error {
	return s.setVisible(id, true, TaskRestored)
}

func (s *Store) setVisible(id uuid.UUID, visible bool, kind EventKind) error {
	s.mu.Lock()
	n, ok := s.byTask[id]
	if !ok {
		s.mu.Unlock()
		return notFound("task", id)
	}
	if n.task.IsVisible == visible {
		s.mu.Unlock()
		return nil
	}
	n.task.IsVisible = visible
	n.task.UpdatedAt = s.clock()
	s.mu.Unlock()

	s.emit(kind, id)
	return nil
}

// ApplyDecay drains every visible task by ratePerHour over elapsed and
// reports how many tasks changed. One HealthDecayed event covers them all.
func (s *Store) ApplyDecay(ratePerHour float64, elapsed time.Duration) (int, error) {
	if ratePerHour < 0 {
		return 0, invalidf("decay rate %v is negative", ratePerHour)
	}
	s.mu.Lock()
	now := s.clock()
	changed := 0
	for _, st := range s.statuses {
		for _, g := range st.goals {
			for _, n := range g.tasks {
				if !n.task.IsVisible {
					continue
				}
				before := health.Meter{Current: n.task.CurrentHealth, Max: n.task.MaxHealth}
				after := health.Decay(before, ratePerHour, elapsed)
				if after == before {
					continue
				}
				n.task.CurrentHealth = after.Current
				n.task.UpdatedAt = now
				changed++
			}
		}
	}
	s.mu.Unlock()

	if changed > 0 {
		s.emit(HealthDecayed, uuid.Nil)
	}
	return changed, nil
}

// Load replaces the whole board. Entities with a nil ID get a fresh one.
// Nothing changes if any entity is invalid.
func (s *Store) Load(statuses []models.Status) error {
	var (
		nodes    = make([]*statusNode, 0, len(statuses))
		byStatus = map[uuid.UUID]*statusNode{}
		byGoal   = map[uuid.UUID]*goalNode{}
		byTask   = map[uuid.UUID]*taskNode{}
		tagSet   = map[string]models.Tag{}
		seen     = map[uuid.UUID]bool{}
	)
	claim := func(id uuid.UUID) (uuid.UUID, error) {
		if id == uuid.Nil {
			id = s.newID()
		}
		if seen[id] {
			return id, invalidf("duplicate id %s", id)
		}
		seen[id] = true
		return id, nil
	}

	for _, in := range statuses {
		id, err := claim(in.ID)
		if err != nil {
			return err
		}
		st := &statusNode{id: id, name: in.Name}
		for _, gin := range in.Goals {
			gid, err := claim(gin.ID)
			if err != nil {
				return err
			}
			g := &goalNode{goal: gin, status: st}
			g.goal.ID = gid
			g.goal.Tasks = nil
			for _, tin := range gin.Tasks {
				tid, err := claim(tin.ID)
				if err != nil {
					return err
				}
				if err := health.Validate(tin.CurrentHealth, tin.MaxHealth); err != nil {
					return err
				}
				tagList, err := normalizeTags(tin.Tags)
				if err != nil {
					return err
				}
				n := &taskNode{task: tin.Clone(), goal: g}
				n.task.ID = tid
				n.task.Tags = canonicalTags(tagSet, tagList)
				g.tasks = append(g.tasks, n)
				byTask[tid] = n
			}
			st.goals = append(st.goals, g)
			byGoal[gid] = g
		}
		nodes = append(nodes, st)
		byStatus[id] = st
	}

	s.mu.Lock()
	s.statuses, s.byStatus, s.byGoal, s.byTask, s.tags = nodes, byStatus, byGoal, byTask, tagSet
	s.mu.Unlock()

	s.log.Info("board loaded", "statuses", len(nodes), "goals", len(byGoal), "tasks", len(byTask))
	s.emit(BoardLoaded, uuid.Nil)
	return nil
}

// registerTags must be called with the write lock held
func (s *Store) registerTags(in []models.Tag) []models.Tag {
	return canonicalTags(s.tags, in)
}

// pruneTags drops registry entries no task carries any more, trashed tasks
// included. Must be called with the write lock held.
func (s *Store) pruneTags() {
	live := make(map[string]bool, len(s.tags))
	for _, n := range s.byTask {
		for _, t := range n.task.Tags {
			live[t.Name] = true
		}
	}
	for name := range s.tags {
		if !live[name] {
			delete(s.tags, name)
		}
	}
}

// canonicalTags resolves each tag to the first one registered under its name
func canonicalTags(registry map[string]models.Tag, in []models.Tag) []models.Tag {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.Tag, len(in))
	for i, t := range in {
		if known, ok := registry[t.Name]; ok {
			out[i] = known
			continue
		}
		registry[t.Name] = t
		out[i] = t
	}
	return out
}

// normalizeTags trims names, rejects empty ones and drops duplicates
func normalizeTags(in []models.Tag) ([]models.Tag, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]models.Tag, 0, len(in))
	seen := map[string]bool{}
	for _, t := range in {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return nil, invalidf("tag name is required")
		}
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	return out, nil
}

func (st *statusNode) snapshot() models.Status {
	out := models.Status{ID: st.id, Name: st.name}
	if len(st.goals) > 0 {
		out.Goals = make([]models.Goal, len(st.goals))
		for i, g := range st.goals {
			out.Goals[i] = g.snapshot()
		}
	}
	return out
}

func (g *goalNode) snapshot() models.Goal {
	out := g.goal
	out.Tasks = nil
	if len(g.tasks) > 0 {
		out.Tasks = make([]models.Task, len(g.tasks))
		for i, n := range g.tasks {
			out.Tasks[i] = n.task.Clone()
		}
	}
	return out
}
