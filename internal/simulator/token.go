package simulator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bundler-sim/bundler_sim/internal/notification"
)

// TokenStatusCreated is the status of every successfully deployed token.
const TokenStatusCreated = "created"

// TokenRequest describes a token to deploy.
type TokenRequest struct {
	Name        string
	Symbol      string
	Description string
	Platform    string
}

// Token is a simulated deployment.
type Token struct {
	ID          string
	Address     string
	Name        string
	Symbol      string
	Description string
	Platform    string
	Status      string
	CreatedAt   time.Time
}

// CreateToken simulates a token deployment. Validation happens before any
// randomness is drawn.
func (e *Engine) CreateToken(ctx context.Context, req TokenRequest) (Token, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Symbol) == "" || strings.TrimSpace(req.Description) == "" {
		return Token{}, e.rejected(ctx, kindToken, ErrTokenFieldsRequired)
	}
	ctx = context.WithoutCancel(ctx)

	if req.Platform == "" {
		req.Platform = e.cfg.Token.DefaultPlatform
	}

	delay := e.jitter.IntBetween(e.cfg.Token.Delay.Min, e.cfg.Token.Delay.Max)
	e.pacer.Pause(ctx, time.Duration(delay)*time.Millisecond)

	if !e.source.Succeeds(e.cfg.Token.SuccessProbability) {
		e.metrics.ObserveOutcome(kindToken, StatusFailed, delay)
		e.logger.WarnContext(ctx, "token deployment failed", "symbol", req.Symbol, "platform", req.Platform)
		return Token{}, ErrTokenPlatform
	}

	tok := Token{
		ID:          uuid.NewString(),
		Address:     e.generator.Address(),
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: req.Description,
		Platform:    req.Platform,
		Status:      TokenStatusCreated,
		CreatedAt:   e.now(),
	}
	e.metrics.ObserveOutcome(kindToken, StatusConfirmed, delay)
	e.logger.InfoContext(ctx, "token deployed", "token_id", tok.ID, "symbol", tok.Symbol, "platform", tok.Platform)
	e.notify(ctx, notification.KindTokenCreated, tok.Address, fmt.Sprintf("%s (%s) created on %s", tok.Name, tok.Symbol, tok.Platform))

	return tok, nil
}
