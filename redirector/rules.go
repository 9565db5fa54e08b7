package redirector

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// Rule names, reported in Outcome.Rule.
const (
	RuleFileShadow   = "file-shadow"
	RuleTopicView    = "topic-view"
	RuleForumCreate  = "forum-topic-create"
	RuleSystemIndex  = "system-game-index"
	RuleTable        = "table"
	RuleTablePattern = "table-pattern"
)

// Request is the input to a rule: a normalized path and its query.
type Request struct {
	Path  string
	Query Query
}

// Rule is one step of the resolution order. Apply reports matched=false
// to pass the request on to the next rule. When matched is true the
// outcome is final. A non-nil error is a fault to be reported; the
// outcome is NotFound in that case.
type Rule interface {
	Name() string
	Apply(ctx context.Context, req Request) (out Outcome, matched bool, err error)
}

// FileShadowRule stops resolution when a real file exists at the path.
// Removing the file lets the later rules take over.
type FileShadowRule struct {
	Files FileChecker
}

// Name implements Rule.
func (FileShadowRule) Name() string { return RuleFileShadow }

// Apply implements Rule.
func (r FileShadowRule) Apply(_ context.Context, req Request) (Outcome, bool, error) {
	if r.Files.Exists(req.Path) {
		return NotFound(RuleFileShadow), true, nil
	}

	return Outcome{}, false, nil
}

const (
	topicViewPath     = "/viewtopic.php"
	topicViewTopicKey = "t"
	topicViewComment  = "c"
)

// TopicViewRule redirects /viewtopic.php?t=<topic>[&c=<comment>] to the
// current topic route, with the comment id as a fragment. An empty c is
// treated as absent: no comment parameter and no fragment.
type TopicViewRule struct {
	Topics TopicURLFormatter
}

// Name implements Rule.
func (TopicViewRule) Name() string { return RuleTopicView }

// Apply implements Rule.
func (r TopicViewRule) Apply(_ context.Context, req Request) (Outcome, bool, error) {
	if req.Path != topicViewPath || !req.Query.Has(topicViewTopicKey) {
		return Outcome{}, false, nil
	}

	topicID, _ := req.Query.Get(topicViewTopicKey)
	if topicID == "" {
		return NotFound(RuleTopicView), true, nil
	}

	commentID, _ := req.Query.Get(topicViewComment)

	target, err := r.Topics.FormatTopicURL(topicID, commentID)
	if err != nil {
		return NotFound(RuleTopicView), true, fmt.Errorf("format topic %q: %w", topicID, err)
	}

	if commentID != "" {
		target += "#" + commentID
	}

	return Redirect(RuleTopicView, target), true, nil
}

var forumCreatePattern = regexp.MustCompile(`^/forums/forum/(\d+)/topic/create$`)

// ForumCreateRule redirects /forums/forum/<id>/topic/create to
// /forums/<category>/<id>/create.
type ForumCreateRule struct {
	Forums ForumFinder
}

// Name implements Rule.
func (ForumCreateRule) Name() string { return RuleForumCreate }

// Apply implements Rule.
func (r ForumCreateRule) Apply(ctx context.Context, req Request) (Outcome, bool, error) {
	m := forumCreatePattern.FindStringSubmatch(req.Path)
	if m == nil {
		return Outcome{}, false, nil
	}

	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return NotFound(RuleForumCreate), true, fmt.Errorf("%w: forum %q", ErrInvalidID, m[1])
	}

	forum, err := r.Forums.FindForumWithCategory(ctx, id)
	if err != nil {
		return NotFound(RuleForumCreate), true, fmt.Errorf("find forum %d: %w", id, err)
	}

	return Redirect(RuleForumCreate, fmt.Sprintf("/forums/%d/%d/create", forum.CategoryID, forum.ID)), true, nil
}

var systemIndexPattern = regexp.MustCompile(`^/system/([^/]+-(\d+))/games$`)

// SystemIndexRule redirects /system/<old-slug>-<id>/games to the games
// page under the system's current slug.
type SystemIndexRule struct {
	Systems SystemFinder
}

// Name implements Rule.
func (SystemIndexRule) Name() string { return RuleSystemIndex }

// Apply implements Rule.
func (r SystemIndexRule) Apply(ctx context.Context, req Request) (Outcome, bool, error) {
	m := systemIndexPattern.FindStringSubmatch(req.Path)
	if m == nil {
		return Outcome{}, false, nil
	}

	id, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return NotFound(RuleSystemIndex), true, fmt.Errorf("%w: system %q", ErrInvalidID, m[2])
	}

	system, err := r.Systems.FindSystem(ctx, id)
	if err != nil {
		return NotFound(RuleSystemIndex), true, fmt.Errorf("find system %d: %w", id, err)
	}

	target := "/system/" + system.Slug + "/games"
	if system.Slug == "" || target == req.Path {
		return NotFound(RuleSystemIndex), true, nil
	}

	return Redirect(RuleSystemIndex, target), true, nil
}

// TableRule resolves exact entries of the redirect table.
type TableRule struct {
	Table *Table
}

// Name implements Rule.
func (TableRule) Name() string { return RuleTable }

// Apply implements Rule.
func (r TableRule) Apply(_ context.Context, req Request) (Outcome, bool, error) {
	entry, ok := r.Table.Lookup(req.Path)
	if !ok {
		return Outcome{}, false, nil
	}

	target, ok := entry.resolve(req.Query, Query{})
	if !ok {
		return NotFound(RuleTable), true, nil
	}

	return Redirect(RuleTable, target), true, nil
}

// TablePatternRule resolves pattern entries of the redirect table. Path
// variables fill placeholders of the same name in the target.
type TablePatternRule struct {
	Table *Table
}

// Name implements Rule.
func (TablePatternRule) Name() string { return RuleTablePattern }

// Apply implements Rule.
func (r TablePatternRule) Apply(_ context.Context, req Request) (Outcome, bool, error) {
	entry, vars, ok := r.Table.match(req.Path)
	if !ok {
		return Outcome{}, false, nil
	}

	target, ok := entry.resolve(req.Query, vars)
	if !ok {
		return NotFound(RuleTablePattern), true, nil
	}

	return Redirect(RuleTablePattern, target), true, nil
}
