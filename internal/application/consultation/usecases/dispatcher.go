package usecases

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/ibis1225/pet-ai/internal/application/consultation/dto"
	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
	"github.com/ibis1225/pet-ai/internal/shared/biztime"
	"github.com/ibis1225/pet-ai/internal/shared/errors"
	"github.com/ibis1225/pet-ai/internal/shared/goroutine"
	"github.com/ibis1225/pet-ai/internal/shared/logger"
	"github.com/ibis1225/pet-ai/internal/shared/textnorm"
	"github.com/ibis1225/pet-ai/internal/shared/utils"
	"github.com/ibis1225/pet-ai/internal/shared/utils/logutil"
)

const (
	cancelledMessage     = "상담이 취소되었습니다. 다시 상담을 원하시면 언제든 말씀해주세요. 🐾"
	noActiveMessage      = "진행 중인 상담이 없습니다."
	notifyTimeout        = 30 * time.Second
	metadataDeliveryID   = "last_delivery_id"
	defaultUnitRetries   = 3
	defaultUnitRetryBase = 25 * time.Millisecond
	maxLoggedInput       = 40
)

var cancelKeywords = []string{"취소", "cancel", "중단", "그만"}

type StartCommand struct {
	Channel       string
	ChannelUserID string
}

type ProcessInputCommand struct {
	Channel       string
	ChannelUserID string
	Text          string
	DeliveryID    string
}

// ProcessPostbackCommand carries a quick-reply answer. Either Step and
// Value, or Data in the form "action=consultation&step=..&value=..".
type ProcessPostbackCommand struct {
	Channel       string
	ChannelUserID string
	Step          string
	Value         string
	Data          string
	DeliveryID    string
}

type DispatcherOptions struct {
	// MaxRetries bounds replays of a unit of work that hit a lock
	// conflict or lost a race on a unique key.
	MaxRetries uint64
	RetryBase  time.Duration
}

// Dispatcher routes chat input to the guardian's active consultation.
// Each input is handled in one transaction that locks the active record.
type Dispatcher struct {
	repo     consultation.Repository
	engine   FlowProcessor
	txm      TransactionRunner
	dedup    DeliveryDeduplicator
	notifier CompletionNotifier
	opts     DispatcherOptions
	logger   logger.Interface
	now      func() time.Time
}

func NewDispatcher(
	repo consultation.Repository,
	engine FlowProcessor,
	txm TransactionRunner,
	opts DispatcherOptions,
	logger logger.Interface,
) *Dispatcher {
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultUnitRetries
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = defaultUnitRetryBase
	}
	return &Dispatcher{
		repo:   repo,
		engine: engine,
		txm:    txm,
		opts:   opts,
		logger: logger,
		now:    biztime.NowUTC,
	}
}

// WithDeduplicator enables delivery dedup. A nil value disables it.
func (d *Dispatcher) WithDeduplicator(dedup DeliveryDeduplicator) *Dispatcher {
	d.dedup = dedup
	return d
}

func (d *Dispatcher) WithNotifier(n CompletionNotifier) *Dispatcher {
	d.notifier = n
	return d
}

func (d *Dispatcher) FindActive(ctx context.Context, channel, channelUserID string) (*dto.ActiveDTO, error) {
	if err := validateUser(channel, channelUserID); err != nil {
		return nil, err
	}

	c, err := d.repo.GetActive(ctx, channel, channelUserID)
	if stderrors.Is(err, consultation.ErrNotFound) {
		return &dto.ActiveDTO{IsActive: false}, nil
	}
	if err != nil {
		d.logger.Errorw("failed to get active consultation", "channel", channel, "error", err)
		return nil, errors.NewInternalError("failed to get active consultation")
	}

	return &dto.ActiveDTO{
		IsActive:       true,
		ConsultationID: c.ID(),
		Step:           c.CurrentStep().String(),
		StepPosition:   c.CurrentStep().Position(),
		TotalSteps:     len(vo.FlowSteps()),
		TicketNumber:   c.TicketNumber(),
	}, nil
}

// Start returns the active consultation's current prompt, creating the
// consultation first when none is active.
func (d *Dispatcher) Start(ctx context.Context, cmd StartCommand) (*dto.ReplyDTO, error) {
	if err := validateUser(cmd.Channel, cmd.ChannelUserID); err != nil {
		return nil, err
	}

	var reply *dto.ReplyDTO
	err := d.runUnit(ctx, func(ctx context.Context) error {
		reply = nil
		c, err := d.repo.GetActiveForUpdate(ctx, cmd.Channel, cmd.ChannelUserID)
		if err == nil {
			reply = dto.NewReplyDTO(c, consultation.PromptFor(c))
			return nil
		}
		if !stderrors.Is(err, consultation.ErrNotFound) {
			return err
		}
		reply, err = d.create(ctx, cmd.Channel, cmd.ChannelUserID)
		return err
	})
	if err != nil {
		return nil, d.mapError("start consultation", err)
	}
	return reply, nil
}

func (d *Dispatcher) Cancel(ctx context.Context, channel, channelUserID string) (*dto.ReplyDTO, error) {
	if err := validateUser(channel, channelUserID); err != nil {
		return nil, err
	}

	var reply *dto.ReplyDTO
	err := d.runUnit(ctx, func(ctx context.Context) error {
		var err error
		reply, err = d.cancelActive(ctx, channel, channelUserID)
		return err
	})
	if err != nil {
		return nil, d.mapError("cancel consultation", err)
	}
	if reply == nil {
		return nil, errors.NewNotFoundError("no active consultation")
	}
	return reply, nil
}

// ProcessInput handles a free-text message. Cancel keywords abandon the
// active consultation; input from a user without one starts a new one.
func (d *Dispatcher) ProcessInput(ctx context.Context, cmd ProcessInputCommand) (*dto.ReplyDTO, error) {
	if err := validateUser(cmd.Channel, cmd.ChannelUserID); err != nil {
		return nil, err
	}

	return d.deliverOnce(ctx, cmd.DeliveryID, func(ctx context.Context) (*dto.ReplyDTO, error) {
		if isCancelKeyword(cmd.Text) {
			var reply *dto.ReplyDTO
			err := d.runUnit(ctx, func(ctx context.Context) error {
				var err error
				reply, err = d.cancelActive(ctx, cmd.Channel, cmd.ChannelUserID)
				return err
			})
			if err != nil {
				return nil, err
			}
			if reply == nil {
				return &dto.ReplyDTO{Message: noActiveMessage}, nil
			}
			return reply, nil
		}
		return d.answer(ctx, cmd.Channel, cmd.ChannelUserID, cmd.Text, "", cmd.DeliveryID, true)
	})
}

// ProcessPostback handles a quick-reply answer. A postback for a step the
// consultation has already left is rejected as stale.
func (d *Dispatcher) ProcessPostback(ctx context.Context, cmd ProcessPostbackCommand) (*dto.ReplyDTO, error) {
	if err := validateUser(cmd.Channel, cmd.ChannelUserID); err != nil {
		return nil, err
	}

	stepValue, value := cmd.Step, cmd.Value
	if cmd.Data != "" {
		p, err := ParsePostbackData(cmd.Data)
		if err != nil {
			return nil, err
		}
		stepValue, value = p.Step, p.Value
	}

	step, err := vo.NewStep(stepValue)
	if err != nil || step.IsTerminal() {
		return nil, errors.NewValidationError("invalid step", stepValue)
	}

	return d.deliverOnce(ctx, cmd.DeliveryID, func(ctx context.Context) (*dto.ReplyDTO, error) {
		return d.answer(ctx, cmd.Channel, cmd.ChannelUserID, value, step, cmd.DeliveryID, false)
	})
}

// answer runs one input through the flow engine. expected, when set, must
// match the current step. startIfMissing creates a consultation when the
// user has none and replies with its first prompt.
func (d *Dispatcher) answer(
	ctx context.Context,
	channel, channelUserID, raw string,
	expected vo.Step,
	deliveryID string,
	startIfMissing bool,
) (*dto.ReplyDTO, error) {
	var (
		reply     *dto.ReplyDTO
		completed *consultation.Consultation
	)

	err := d.runUnit(ctx, func(ctx context.Context) error {
		reply, completed = nil, nil

		c, err := d.repo.GetActiveForUpdate(ctx, channel, channelUserID)
		if stderrors.Is(err, consultation.ErrNotFound) {
			if !startIfMissing {
				return errors.NewNotFoundError("no active consultation")
			}
			reply, err = d.create(ctx, channel, channelUserID)
			return err
		}
		if err != nil {
			return err
		}

		if expected != "" && c.CurrentStep() != expected {
			return errors.NewConflictError("stale postback",
				"expected step "+c.CurrentStep().String()+", got "+expected.String())
		}

		result, err := d.engine.ProcessStep(ctx, c, raw)
		if err != nil {
			return err
		}
		if result.Rejected {
			d.logger.Debugw("consultation input rejected",
				"consultation_id", c.ID(),
				"step", c.CurrentStep(),
				"input", logutil.TruncateForLog(raw, maxLoggedInput),
			)
			reply = dto.NewReplyDTO(c, result.Message)
			reply.Rejected = true
			return nil
		}

		if deliveryID != "" {
			c.SetMetadata(metadataDeliveryID, deliveryID)
		}
		if err := d.repo.Update(ctx, c); err != nil {
			return err
		}

		reply = dto.NewReplyDTO(c, result.Message)
		if result.Completed {
			completed = c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed != nil {
		d.logger.Infow("consultation completed",
			"consultation_id", completed.ID(),
			"ticket_number", completed.TicketNumber(),
			"category", completed.Category(),
			"urgency", completed.Urgency(),
			"guardian_phone", utils.MaskPhone(completed.GuardianPhone()),
		)
		d.notifyAsync(completed)
	}
	return reply, nil
}

func (d *Dispatcher) create(ctx context.Context, channel, channelUserID string) (*dto.ReplyDTO, error) {
	c, err := consultation.NewConsultation(channel, channelUserID, d.now())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := d.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	d.logger.Infow("consultation started", "consultation_id", c.ID(), "channel", channel)

	reply := dto.NewReplyDTO(c, consultation.PromptFor(c))
	reply.Started = true
	return reply, nil
}

// cancelActive returns nil, nil when the user has nothing to cancel.
func (d *Dispatcher) cancelActive(ctx context.Context, channel, channelUserID string) (*dto.ReplyDTO, error) {
	c, err := d.repo.GetActiveForUpdate(ctx, channel, channelUserID)
	if stderrors.Is(err, consultation.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := c.Cancel(d.now()); err != nil {
		return nil, err
	}
	if err := d.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	d.logger.Infow("consultation cancelled", "consultation_id", c.ID(), "step", c.CurrentStep())

	return &dto.ReplyDTO{
		ConsultationID: c.ID(),
		Step:           c.CurrentStep().String(),
		Message:        cancelledMessage,
		Cancelled:      true,
	}, nil
}

// deliverOnce drops a delivery that was already handled. A failed
// delivery is forgotten so the channel's redelivery is processed. Dedup
// errors are logged and the input is processed anyway.
func (d *Dispatcher) deliverOnce(
	ctx context.Context,
	deliveryID string,
	fn func(ctx context.Context) (*dto.ReplyDTO, error),
) (*dto.ReplyDTO, error) {
	marked := false
	if deliveryID != "" && d.dedup != nil {
		first, err := d.dedup.MarkIfFirst(ctx, deliveryID)
		switch {
		case err != nil:
			d.logger.Warnw("delivery dedup unavailable", "delivery_id", deliveryID, "error", err)
		case !first:
			d.logger.Infow("duplicate delivery dropped", "delivery_id", deliveryID)
			return &dto.ReplyDTO{Duplicate: true}, nil
		default:
			marked = true
		}
	}

	reply, err := fn(ctx)
	if err != nil {
		if marked {
			if ferr := d.dedup.Forget(context.WithoutCancel(ctx), deliveryID); ferr != nil {
				d.logger.Warnw("failed to forget delivery", "delivery_id", deliveryID, "error", ferr)
			}
		}
		return nil, d.mapError("process input", err)
	}
	return reply, nil
}

// runUnit runs fn in a transaction and replays it on lock conflicts and
// lost unique-key races.
func (d *Dispatcher) runUnit(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(d.opts.MaxRetries,
		retry.WithJitterPercent(20, retry.NewExponential(d.opts.RetryBase)))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := d.txm.RunInTransaction(ctx, fn)
		if err != nil && (errors.IsRetryableStorageError(err) || errors.IsDuplicateError(err)) {
			d.logger.Warnw("retrying consultation unit of work", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (d *Dispatcher) notifyAsync(c *consultation.Consultation) {
	if d.notifier == nil {
		return
	}
	goroutine.SafeGo(d.logger, "consultation-notify", func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := d.notifier.NotifySubmitted(ctx, c); err != nil {
			d.logger.Errorw("failed to send consultation notification",
				"ticket_number", c.TicketNumber(), "error", err)
		}
	})
}

func (d *Dispatcher) mapError(op string, err error) error {
	if errors.IsAppError(err) {
		return err
	}
	switch {
	case stderrors.Is(err, consultation.ErrNotInProgress):
		return errors.NewConflictError("consultation is not in progress")
	case stderrors.Is(err, consultation.ErrInvalidTransition):
		return errors.NewConflictError(err.Error())
	case stderrors.Is(err, consultation.ErrStateCorruption):
		d.logger.Errorw("consultation state corrupted", "op", op, "error", err)
		return errors.NewInternalError("consultation state is corrupted")
	case errors.IsRetryableStorageError(err), errors.IsDuplicateError(err):
		d.logger.Warnw("consultation unit of work gave up", "op", op, "error", err)
		return errors.NewUnavailableError("consultation is busy, please retry")
	}
	d.logger.Errorw("failed to "+op, "error", err)
	return errors.NewInternalError("failed to " + op)
}

func validateUser(channel, channelUserID string) error {
	if strings.TrimSpace(channel) == "" {
		return errors.NewValidationError("channel is required")
	}
	if strings.TrimSpace(channelUserID) == "" {
		return errors.NewValidationError("channel user ID is required")
	}
	return nil
}

func isCancelKeyword(text string) bool {
	cleaned := strings.ToLower(textnorm.Clean(text))
	for _, k := range cancelKeywords {
		if cleaned == k {
			return true
		}
	}
	return false
}
