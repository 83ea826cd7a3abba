package honeypot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"RugScan/internal/domain/models"
	"RugScan/pkg/config"
	"RugScan/pkg/eth"
	"RugScan/pkg/logger"
)

// testBuyer is a dummy sender for buy probes; eth_call needs no real funds.
const testBuyer = "0x0000000000000000000000000000000000000001"

// Fixed gas figures reported on successful probes. eth_call itself returns no
// estimate, so these are representative swap costs used for the gas-ratio
// warning only.
const (
	buyGasEstimate  uint64 = 139_247
	sellGasEstimate uint64 = 250_000
)

// sellArtifactReasons are revert causes that major liquidity pools produce as
// simulation artifacts of the missing approve step. Only these three are
// overridden; anything else on a major pool is still a genuine failure.
var sellArtifactReasons = []string{
	"transfer_from_failed",
	"exceeds balance",
	"insufficient allowance",
}

// transferArtifactReasons are the balance-shaped artifacts for the direct
// transfer probe.
var transferArtifactReasons = []string{
	"exceeds balance",
	"insufficient balance",
}

// Simulator probes buy/sell/transfer tradability of a token with read-only
// router calls. It is a peer of the module orchestrator: its result travels
// beside the fused score, never inside it.
type Simulator struct {
	client      *eth.Client
	chain       config.ChainConfig
	log         *logger.Logger
	stepTimeout time.Duration
	buyAmount   *big.Int
	majorTokens float64
	majorUSD    float64
}

// Options tunes simulation thresholds.
type Options struct {
	StepTimeout     time.Duration
	BuyAmountWei    *big.Int
	MajorPoolTokens float64
	MajorPoolUSD    float64
}

func New(client *eth.Client, chain config.ChainConfig, log *logger.Logger, opts Options) *Simulator {
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = 10 * time.Second
	}
	if opts.BuyAmountWei == nil {
		opts.BuyAmountWei, _ = eth.ParseWei("100000000000000000")
	}
	if opts.MajorPoolTokens <= 0 {
		opts.MajorPoolTokens = 10_000
	}
	if opts.MajorPoolUSD <= 0 {
		opts.MajorPoolUSD = 1_000_000
	}
	return &Simulator{
		client:      client,
		chain:       chain,
		log:         log,
		stepTimeout: opts.StepTimeout,
		buyAmount:   opts.BuyAmountWei,
		majorTokens: opts.MajorPoolTokens,
		majorUSD:    opts.MajorPoolUSD,
	}
}

// Simulate runs the full buy -> holder discovery -> sell -> transfer probe
// sequence and derives the verdict. It always returns a well-formed result;
// setup failures yield UNKNOWN with confidence none.
func (s *Simulator) Simulate(ctx context.Context, token string, hint models.LiquidityHint) *models.SimulationResult {
	result := &models.SimulationResult{
		Warnings: []string{},
		Features: map[string]float64{},
	}

	buy, err := s.simulateBuy(ctx, token)
	if err != nil {
		return unknownResult(err)
	}
	result.Buy = buy
	if buy.Success {
		result.Features["can_buy"] = 1
	} else {
		result.Warnings = append(result.Warnings, "Cannot buy token: "+buy.Message)
		result.Features["can_buy"] = 0
	}

	holder := s.findHolder(ctx, token)
	result.Holder = holder

	if holder == "" {
		result.Sell = models.SkippedStep("Sell test skipped (no liquidity found)")
		s.log.Debug("no liquidity pair found, skipping sell simulation", logger.String("token", token))
	} else {
		result.Sell = s.simulateSell(ctx, token, holder, hint)
	}
	switch result.Sell.Outcome {
	case models.StepFailed:
		result.Warnings = append(result.Warnings, "HONEYPOT signature: "+result.Sell.Message)
		result.Features["can_sell"] = 0
	default:
		result.Features["can_sell"] = 1
	}

	// The transfer probe only disambiguates a genuine sell failure:
	// DEX-specific restriction vs all transfers blocked.
	result.Features["can_transfer"] = 1
	if result.Sell.Outcome == models.StepFailed && holder != "" {
		tr := s.simulateTransfer(ctx, token, holder, hint)
		result.Transfer = &tr
		if !tr.Success {
			result.Warnings = append(result.Warnings, "Transfer restrictions: "+tr.Message)
			result.Features["can_transfer"] = 0
		}
	}

	result.Verdict, result.Confidence = DeriveVerdict(buy.Success, result.Sell.Outcome)
	result.Features["simulation_verdict"] = verdictFeature(result.Verdict)

	if buy.GasEstimate != nil && result.Sell.GasEstimate != nil && *buy.GasEstimate > 0 {
		ratio := float64(*result.Sell.GasEstimate) / float64(*buy.GasEstimate)
		if ratio > 2.0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Sell gas %.1fx buy gas - possible fee-on-transfer trap", ratio))
		}
		result.Features["buy_gas_normalized"] = min(float64(*buy.GasEstimate)/500_000, 1.0)
		result.Features["sell_gas_normalized"] = min(float64(*result.Sell.GasEstimate)/500_000, 1.0)
	}

	s.log.Info("honeypot simulation complete",
		logger.String("token", token),
		logger.String("verdict", string(result.Verdict)),
		logger.String("confidence", string(result.Confidence)))

	return result
}

func unknownResult(err error) *models.SimulationResult {
	return &models.SimulationResult{
		Verdict:    models.VerdictUnknown,
		Confidence: models.ConfidenceNone,
		Buy:        models.SkippedStep("Simulation unavailable"),
		Sell:       models.SkippedStep("Simulation unavailable"),
		Warnings:   []string{"Simulation unavailable: " + err.Error()},
		Features: map[string]float64{
			"can_buy": 0.5, "can_sell": 0.5, "can_transfer": 0.5,
			"simulation_verdict": 0.5,
		},
		Error: err.Error(),
	}
}

// simulateBuy probes swapping a fixed native amount for the token. An error
// building the call is a setup failure and aborts the simulation; a revert is
// a step failure.
func (s *Simulator) simulateBuy(ctx context.Context, token string) (models.StepResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	data, err := eth.EncodeSwapETHForTokens(
		big.NewInt(0),
		[]string{s.chain.WrappedToken, token},
		testBuyer,
		deadline(),
	)
	if err != nil {
		return models.StepResult{}, fmt.Errorf("build buy call: %w", err)
	}

	_, callErr := s.client.Call(ctx, eth.CallMsg{
		From:  testBuyer,
		To:    s.chain.Router,
		Data:  data,
		Value: s.buyAmount,
	})
	return classify(callErr, "Buy", buyGasEstimate, nil), nil
}

// findHolder locates a real token holder for the sell probe, preferring the
// token/WNATIVE pair: the most reliable non-zero balance on chain.
func (s *Simulator) findHolder(ctx context.Context, token string) string {
	ctx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	pair, err := s.client.GetPair(ctx, s.chain.Factory, token, s.chain.WrappedToken)
	if err != nil || pair == "" {
		return ""
	}
	balance, err := s.client.BalanceOf(ctx, token, pair)
	if err != nil || balance.Sign() == 0 {
		return ""
	}
	return pair
}

// simulateSell probes swapping 10% of the holder's balance back to the
// native token.
func (s *Simulator) simulateSell(ctx context.Context, token, holder string, hint models.LiquidityHint) models.StepResult {
	ctx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	balance, err := s.client.BalanceOf(ctx, token, holder)
	if err != nil {
		return models.SkippedStep("Sell test skipped (could not check holder balance)")
	}
	if balance.Sign() == 0 {
		return models.SkippedStep("Sell test skipped (holder has no tokens)")
	}

	decimals := s.client.Decimals(ctx, token)
	majorPool := s.isMajorPool(balance, decimals, hint)

	amount := new(big.Int).Div(balance, big.NewInt(10))
	if amount.Sign() == 0 {
		amount, _ = eth.ParseWei("1000000000000000000")
	}

	data, err := eth.EncodeSwapTokensForTokens(
		amount,
		big.NewInt(0),
		[]string{token, s.chain.WrappedToken},
		holder,
		deadline(),
	)
	if err != nil {
		return models.SkippedStep("Sell test skipped (could not build call)")
	}

	_, callErr := s.client.Call(ctx, eth.CallMsg{
		From: holder,
		To:   s.chain.Router,
		Data: data,
	})

	var artifacts []string
	if majorPool {
		artifacts = sellArtifactReasons
	}
	return classify(callErr, "Sell", sellGasEstimate, artifacts)
}

// simulateTransfer probes a trivial self-transfer from the holder.
func (s *Simulator) simulateTransfer(ctx context.Context, token, holder string, hint models.LiquidityHint) models.StepResult {
	ctx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	majorPool := false
	if balance, err := s.client.BalanceOf(ctx, token, holder); err == nil {
		majorPool = s.isMajorPool(balance, s.client.Decimals(ctx, token), hint)
	}

	one, _ := eth.ParseWei("1000000000000000000")
	data, err := eth.EncodeTransfer(holder, one)
	if err != nil {
		return models.SkippedStep("Transfer test skipped (could not build call)")
	}

	_, callErr := s.client.Call(ctx, eth.CallMsg{
		From: holder,
		To:   token,
		Data: data,
	})

	var artifacts []string
	if majorPool {
		artifacts = transferArtifactReasons
	}
	return classify(callErr, "Transfer", 0, artifacts)
}

// isMajorPool classifies a holder whose simulated-call artifacts should not
// be read as genuine restrictions: either its normalized balance exceeds the
// token-count threshold or the supplied liquidity hint exceeds the USD one.
func (s *Simulator) isMajorPool(balance *big.Int, decimals uint8, hint models.LiquidityHint) bool {
	f, _ := new(big.Float).SetInt(balance).Float64()
	normalized := f / math.Pow10(int(decimals))
	if normalized > s.majorTokens {
		return true
	}
	return hint.USD != nil && *hint.USD > s.majorUSD
}

// classify folds an eth_call error into a step result. Insufficient-funds
// means the call path is valid and only real balance was missing; artifact
// reasons on major pools are overridden to success.
func classify(callErr error, step string, gas uint64, artifactReasons []string) models.StepResult {
	if callErr == nil || errors.Is(callErr, eth.ErrInsufficientFunds) {
		res := models.StepResult{
			Outcome: models.StepSucceeded,
			Success: true,
			Message: step + " simulation successful",
		}
		if gas > 0 {
			res.GasEstimate = &gas
		}
		return res
	}

	if reason, ok := eth.IsRevert(callErr); ok {
		lower := strings.ToLower(reason)
		for _, artifact := range artifactReasons {
			if strings.Contains(lower, artifact) {
				res := models.StepResult{
					Outcome: models.StepSucceeded,
					Success: true,
					Message: step + " simulation successful (major liquidity pool)",
				}
				if gas > 0 {
					res.GasEstimate = &gas
				}
				return res
			}
		}
		if reason == "" {
			reason = "transaction would revert"
		}
		return models.StepResult{
			Outcome: models.StepFailed,
			Message: step + " FAILED: " + reason,
		}
	}

	return models.StepResult{
		Outcome: models.StepFailed,
		Message: step + " error: " + callErr.Error(),
	}
}

func deadline() *big.Int {
	return big.NewInt(time.Now().Unix() + 300)
}
