package tldr

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"wtldr/model"
)

// Response is the single outcome of an invocation: a grouped reply on success,
// otherwise a plain text line.
type Response struct {
	Text  string
	Reply *GroupedReply
}

// String returns the plain text form of the response.
func (r Response) String() string {
	if r.Reply != nil {
		return r.Reply.String()
	}
	return r.Text
}

// Pipeline is safe for concurrent use; it holds no per-invocation state.
type Pipeline struct {
	opts     Options
	store    MessageStore
	selector *Selector
	users    UserResolver
	provider model.Provider
	logger   zerolog.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithUserResolver lets bare user arguments name a participant, e.g. by display
// name. Without one a bare argument is a user id on the invoking platform.
func WithUserResolver(r UserResolver) Option {
	return func(p *Pipeline) {
		p.users = r
	}
}

func New(opts Options, store MessageStore, provider model.Provider, logger zerolog.Logger, options ...Option) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if store == nil || provider == nil {
		return nil, errors.New("store and provider are required")
	}
	p := &Pipeline{
		opts:     opts,
		store:    store,
		selector: NewSelector(store),
		provider: provider,
		logger:   logger.With().Str("component", "tldr").Logger(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p, nil
}

func (p *Pipeline) Options() Options {
	return p.opts
}

// Run executes one invocation to completion.
func (p *Pipeline) Run(ctx context.Context, inv Invocation) Response {
	log := p.logger.With().
		Str("platform", inv.Platform()).
		Str("guild", inv.GuildID()).
		Logger()

	criteria, usage := p.criteria(inv)
	if usage != nil {
		log.Debug().Str("reason", usage.Message).Msg("invocation rejected")
		invocationsTotal.WithLabelValues(OutcomeUsage).Inc()
		return Response{Text: usage.Message}
	}

	if err := p.resolve(ctx, inv, &criteria); err != nil {
		var usage *UsageError
		if errors.As(err, &usage) {
			log.Debug().Str("reason", usage.Message).Msg("invocation rejected")
			invocationsTotal.WithLabelValues(OutcomeUsage).Inc()
			return Response{Text: usage.Message}
		}
		log.Error().Err(err).Msg("lookup failed")
		invocationsTotal.WithLabelValues(OutcomeStorageError).Inc()
		return Response{Text: MsgStorageFailed}
	}

	log.Debug().
		Int("limit", criteria.Limit).
		Str("user", criteria.UserID).
		Bool("anchored", criteria.Anchored()).
		Msg("selecting window")

	window, err := p.selector.Select(ctx, criteria)
	if err != nil {
		log.Error().Err(err).Msg("message query failed")
		invocationsTotal.WithLabelValues(OutcomeStorageError).Inc()
		return Response{Text: MsgStorageFailed}
	}
	windowMessages.Observe(float64(len(window)))

	if len(window) == 0 {
		log.Debug().Msg("window is empty")
		invocationsTotal.WithLabelValues(OutcomeEmpty).Inc()
		return Response{Text: MsgNoMessages}
	}

	prompt := Assemble(p.opts.Prompt, inv.Instruction(), window)
	anchored := criteria.Anchored()

	if err := inv.Notify(ctx, notice(len(window), anchored)); err != nil {
		log.Warn().Err(err).Msg("failed to deliver notice")
	}

	log.Debug().Int("messages", len(window)).Str("model", p.provider.GetModel()).Msg("requesting summary")

	start := time.Now()
	result, err := Summarize(ctx, p.provider, prompt)
	generationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error().Err(err).Msg("summary generation failed")
		invocationsTotal.WithLabelValues(OutcomeGenerationError).Inc()
		return Response{Text: MsgGenerationFailed}
	}
	if result.Refused {
		log.Info().Msg("provider refused to summarize")
	}

	reply := Compose(len(window), result.Text, anchored)
	invocationsTotal.WithLabelValues(OutcomeOK).Inc()
	return Response{Reply: &reply}
}

// criteria validates the invocation and derives the selection criteria from it.
// It touches no storage; user and anchor lookups happen in resolve.
func (p *Pipeline) criteria(inv Invocation) (model.SelectionCriteria, *UsageError) {
	platform, guild := inv.Platform(), inv.GuildID()
	if guild == "" {
		return model.SelectionCriteria{}, &UsageError{Message: MsgNoGuild}
	}
	if !p.opts.GuildEnabled(platform, guild) {
		return model.SelectionCriteria{}, &UsageError{Message: MsgGuildDisabled}
	}

	limit := p.opts.DefaultCount
	if n, ok := inv.Count(); ok {
		if n < 1 {
			return model.SelectionCriteria{}, &UsageError{Message: MsgInvalidCount}
		}
		if n > p.opts.MaxCount {
			return model.SelectionCriteria{}, usagef(msgCountOverMax, p.opts.MaxCount)
		}
		limit = n
	}

	criteria := model.SelectionCriteria{
		Platform: platform,
		GuildID:  guild,
		Limit:    limit,
	}

	if ref, ok := ParseUserRef(inv.UserArg()); ok {
		if ref.Platform != platform {
			return model.SelectionCriteria{}, &UsageError{Message: MsgUserWrongPlatform}
		}
		criteria.UserID = ref.ID
	}

	return criteria, nil
}

// resolve completes criteria with the anchor bound and a user filter that needs a
// lookup. It runs only once every usage check has passed.
func (p *Pipeline) resolve(ctx context.Context, inv Invocation, criteria *model.SelectionCriteria) error {
	if id := inv.AnchorMessageID(); id != "" {
		anchor, err := ResolveAnchor(ctx, p.store, criteria.Platform, criteria.GuildID, id)
		if err != nil {
			return err
		}
		ts := anchor.Timestamp
		criteria.MinTimestamp = &ts
	}

	arg := inv.UserArg()
	if arg == "" || criteria.UserID != "" {
		return nil
	}

	if p.users != nil {
		ref, err := p.users.ResolveUser(ctx, criteria.Platform, criteria.GuildID, arg)
		if err != nil {
			return err
		}
		if ref != nil {
			criteria.UserID = ref.ID
			return nil
		}
	}
	// Unknown participants fall through to an empty window
	criteria.UserID = TargetUser(criteria.Platform, arg).ID
	return nil
}
