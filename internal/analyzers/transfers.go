package analyzers

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"RugScan/internal/domain/models"
	"RugScan/pkg/eth"
)

const transferScanBlocks = 10_000

// TransferAnalyzer scores recent transfer activity: volume, whale-sized
// moves relative to supply, and post-launch mint events.
type TransferAnalyzer struct{}

func NewTransferAnalyzer() *TransferAnalyzer { return &TransferAnalyzer{} }

func (a *TransferAnalyzer) Name() string { return "transfer_anomaly" }

func (a *TransferAnalyzer) Analyze(ctx context.Context, address string, client *eth.Client) (*models.ModuleResult, error) {
	warnings := []string{}
	data := map[string]any{}
	features := map[string]float64{}
	risk := 0.0

	head, err := client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("head block: %w", err)
	}
	from := uint64(0)
	if head > transferScanBlocks {
		from = head - transferScanBlocks
	}

	logs, err := client.GetLogs(ctx, eth.LogFilter{
		Address:   address,
		Topics:    []string{eth.TransferTopic},
		FromBlock: from,
		ToBlock:   head,
	})
	if err != nil {
		return nil, fmt.Errorf("transfer logs: %w", err)
	}

	supply, supplyErr := client.TotalSupply(ctx, address)

	senders := map[string]struct{}{}
	receivers := map[string]struct{}{}
	largeTransfers := 0
	recentMints := 0
	for _, lg := range logs {
		if len(lg.Topics) < 3 {
			continue
		}
		fromAddr := topicAddress(lg.Topics[1])
		toAddr := topicAddress(lg.Topics[2])
		senders[fromAddr] = struct{}{}
		receivers[toAddr] = struct{}{}

		if fromAddr == eth.ZeroAddress {
			recentMints++
		}
		if supplyErr == nil && supply.Sign() > 0 {
			value, ok := new(big.Int).SetString(strings.TrimPrefix(lg.Data, "0x"), 16)
			if ok && ratio(value, supply) > 0.05 {
				largeTransfers++
			}
		}
	}

	total := len(logs)
	data["total_transfers"] = total
	data["large_transfers"] = largeTransfers
	data["recent_mints"] = recentMints

	if recentMints > 0 {
		warnings = append(warnings, fmt.Sprintf("%d recent mint event(s) detected", recentMints))
		risk += float64(recentMints) * 15
	}
	if largeTransfers > 5 {
		warnings = append(warnings, fmt.Sprintf("%d large transfers (whale activity)", largeTransfers))
		risk += 15
	} else if largeTransfers > 0 {
		warnings = append(warnings, fmt.Sprintf("%d large transfers detected", largeTransfers))
		risk += 10
	}

	// Composite anomaly score: mint churn, whale share of activity, and
	// one-sided flow all push it up.
	anomaly := 0.0
	if total > 0 {
		anomaly += min(float64(largeTransfers)/float64(total)*2, 0.4)
		anomaly += min(float64(recentMints)/10, 0.3)
		if len(receivers) > 0 && float64(len(senders))/float64(len(receivers)) < 0.1 {
			anomaly += 0.3 // near-pure distribution pattern
		}
	}
	switch {
	case anomaly > 0.7:
		warnings = append(warnings, fmt.Sprintf("High anomaly score (%.2f) - unusual patterns", anomaly))
		risk += 30
	case anomaly > 0.5:
		warnings = append(warnings, fmt.Sprintf("Moderate anomaly score (%.2f)", anomaly))
		risk += 15
	case anomaly > 0.3:
		warnings = append(warnings, fmt.Sprintf("Some anomalies detected (%.2f)", anomaly))
		risk += 5
	}
	if total < 10 {
		warnings = append(warnings, "Very low transfer activity - new or inactive token")
		risk += 10
	}

	data["anomaly_score"] = anomaly
	features["anomaly_score"] = anomaly
	features["transfer_count"] = min(float64(total)/10000, 1.0)
	features["large_transfer_ratio"] = safeRatio(largeTransfers, total)
	features["recent_mint_count"] = float64(recentMints)

	return &models.ModuleResult{
		Module:    a.Name(),
		RiskScore: min(risk, 100),
		Warnings:  warnings,
		Data:      data,
		Features:  features,
	}, nil
}

func safeRatio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
