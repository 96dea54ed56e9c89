package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.s.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ins := builder().Insert("llm_requests").
		Columns("sequence", "provider", "model", "purpose", "input_tokens",
			"output_tokens", "latency_ms", "success", "error_message", "created_at").
		Values(seqNum, data.Provider, data.Model, data.Purpose, data.InputTokens,
			data.OutputTokens, data.LatencyMs, boolInt(data.Success), data.ErrorMessage,
			formatTime(time.Now()))
	if err := r.s.exec(ctx, ins); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	b := builder()
	sel := b.Select("sequence", "provider", "model", "purpose", "input_tokens",
		"output_tokens", "latency_ms", "success", "error_message", "created_at").
		From(b.Table("llm_requests"))
	sel = applyQueryOpts(sel, "created_at", opts)

	var out []LLMRequestEvent
	err := r.s.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			ev      LLMRequestEvent
			created string
		)
		if err := rows.Scan(&ev.Sequence, &ev.Provider, &ev.Model, &ev.Purpose,
			&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &ev.Success,
			&ev.ErrorMessage, &created); err != nil {
			return err
		}
		ev.Timestamp = parseTime(created)
		out = append(out, ev)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM request events: %w", err)
	}
	return out, nil
}
