package domain

import (
	"context"
	"log/slog"
)

// ContractResolver maps a question category to its role contract.
type ContractResolver interface {
	// Resolve returns the contract for a category. An empty category
	// resolves to the general contract.
	Resolve(ctx context.Context, category string) (Contract, error)

	// Source identifies the resolver backing: "static" or "remote".
	Source() string
}

// EnrichWithContract attempts to attach the category contract to a payload.
// If resolver is nil or resolution fails, the payload is returned with
// ContractSource set accordingly (graceful degradation).
func EnrichWithContract(ctx context.Context, payload DisplayPayload, resolver ContractResolver, logger *slog.Logger) DisplayPayload {
	if resolver == nil {
		return payload
	}

	contract, err := resolver.Resolve(ctx, payload.Category)
	if err != nil {
		logger.Warn("contract resolution failed",
			"chart_id", payload.ChartID,
			"category", payload.Category,
			"error", err,
		)
		payload.ContractSource = "failed"
		return payload
	}

	payload.Contract = contract
	payload.ContractSource = resolver.Source()
	if contract.Category != "" && contract.Category != payload.Category {
		// Resolvers may canonicalize legacy category aliases.
		payload.Category = contract.Category
	}
	return payload
}
