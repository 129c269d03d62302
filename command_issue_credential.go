package guard

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// DefaultCredentialLength is used when the message does not request one.
const DefaultCredentialLength = 12

// DefaultCredentialTTL bounds how long a temporary credential stays usable.
const DefaultCredentialTTL = 24 * time.Hour

type IssueTemporaryCredentialMessage struct {
	Email      string        `json:"email" example:"pepe.rone@example.com" doc:"Account the credential is issued for."`
	Length     int           `json:"length,omitempty" doc:"Requested credential length, defaults to 12."`
	TTL        time.Duration `json:"ttl,omitempty" doc:"How long the credential stays usable."`
	UseHashid  bool
	OnResponse func(resp *IssueTemporaryCredentialResponse)
}

func (m IssueTemporaryCredentialMessage) Type() string { return "credential.issue_temporary" }

// Validate checks the message before any work happens.
func (m IssueTemporaryCredentialMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.Length, validation.Min(0)),
	)
}

// IssueTemporaryCredentialResponse carries the stored record and the one
// time plaintext. The plaintext is never persisted or logged.
type IssueTemporaryCredentialResponse struct {
	Credential *IssuedCredential
	Plaintext  string
	Success    bool
}

type IssueTemporaryCredentialHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewIssueTemporaryCredentialHandler(repo RepositoryManager) *IssueTemporaryCredentialHandler {
	return &IssueTemporaryCredentialHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger sets the logger.
func (h *IssueTemporaryCredentialHandler) WithLogger(logger Logger) *IssueTemporaryCredentialHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *IssueTemporaryCredentialHandler) Execute(ctx context.Context, event IssueTemporaryCredentialMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during credential issuance",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *IssueTemporaryCredentialHandler) execute(ctx context.Context, event IssueTemporaryCredentialMessage) error {
	resp := &IssueTemporaryCredentialResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid credential issuance request")
	}

	length := event.Length
	if length == 0 {
		length = DefaultCredentialLength
	}

	ttl := event.TTL
	if ttl <= 0 {
		ttl = DefaultCredentialTTL
	}

	plaintext, hash, err := TemporaryCredentialHash(length)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate temporary credential")
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		expiresAt := time.Now().Add(ttl)
		record := &IssuedCredential{
			Email:          event.Email,
			CredentialHash: hash,
			Status:         CredentialIssued,
			ExpiresAt:      &expiresAt,
		}

		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				record.ID = id
			}
		}

		created, err := h.repo.Credentials().IssueTx(ctx, tx, record)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not store issued credential")
		}

		resp.Credential = created
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "credential issuance transaction failed")
	}

	h.logger.Info("issued temporary credential for %s", event.Email)

	resp.Plaintext = plaintext
	resp.Success = true
	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
