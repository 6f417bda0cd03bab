package pool

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolCore/internal/ledger"
	"poolCore/internal/reserve"
	"poolCore/internal/transfer"
)

// Sink holds the permanently locked minimum-liquidity shares. It is a
// well-known burn address so the zero address stays invalid everywhere.
var Sink = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

// Pool is the constant-product engine for a single asset pair. Mutating
// operations are serialized by an exclusive lock; each one either commits
// fully or leaves no observable state change. Internal state always commits
// before the outbound transfer leg, so a reentrant recipient can never
// observe a stale reserve snapshot.
type Pool struct {
	mu sync.Mutex

	assetA common.Address
	assetB common.Address

	reserves  *reserve.Store
	shares    *ledger.Ledger
	transfers transfer.Port
	logger    *zap.Logger
}

// New creates an empty pool for the two assets. Asset order is canonical:
// the byte-wise lower address becomes assetA regardless of argument order.
func New(assetA, assetB common.Address, transfers transfer.Port, logger *zap.Logger) (*Pool, error) {
	zero := common.Address{}
	if assetA == zero || assetB == zero {
		return nil, ErrZeroAddress
	}
	if assetA == assetB {
		return nil, ErrIdenticalAssets
	}
	if transfers == nil {
		return nil, fmt.Errorf("transfer port is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if bytes.Compare(assetA.Bytes(), assetB.Bytes()) > 0 {
		assetA, assetB = assetB, assetA
	}

	return &Pool{
		assetA:    assetA,
		assetB:    assetB,
		reserves:  reserve.New(),
		shares:    ledger.New(),
		transfers: transfers,
		logger:    logger,
	}, nil
}

// Assets returns the canonical asset pair.
func (p *Pool) Assets() (common.Address, common.Address) {
	return p.assetA, p.assetB
}

// GetReserves returns copies of both reserves.
func (p *Pool) GetReserves() (*big.Int, *big.Int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reserves.Get()
}

// BalanceOf returns the holder's share balance.
func (p *Pool) BalanceOf(holder common.Address) *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shares.BalanceOf(holder)
}

// TotalShares returns the total issued share supply.
func (p *Pool) TotalShares() *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shares.TotalSupply()
}

// GetAmountOut quotes the output for amountIn of tokenIn without mutating
// any state.
func (p *Pool) GetAmountOut(amountIn *big.Int, tokenIn common.Address) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	reserveIn, reserveOut, _, err := p.orient(tokenIn)
	if err != nil {
		return nil, err
	}
	return AmountOut(amountIn, reserveIn, reserveOut)
}

// Mint deposits amountA and amountB from caller and credits recipient with
// liquidity shares. The first deposit seeds the pool and locks
// MinimumLiquidity shares in the sink; later deposits issue shares
// proportional to the asset contributing the smaller relative amount.
func (p *Pool) Mint(ctx context.Context, caller common.Address, amountA, amountB *big.Int, recipient common.Address) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if recipient == (common.Address{}) {
		return nil, ErrZeroAddress
	}
	amountA = normalize(amountA)
	amountB = normalize(amountB)
	if amountA.Sign() < 0 || amountB.Sign() < 0 {
		return nil, ErrInsufficientInputAmount
	}

	reserveA, reserveB := p.reserves.Get()
	total := p.shares.TotalSupply()

	var issued *big.Int
	first := total.Sign() == 0
	if first {
		product := new(big.Int).Mul(amountA, amountB)
		issued = sqrtFloor(product)
		issued.Sub(issued, MinimumLiquidity)
		if issued.Sign() <= 0 {
			return nil, ErrInsufficientLiquidityMinted
		}
	} else {
		byA := new(big.Int).Mul(amountA, total)
		byA.Div(byA, reserveA)
		byB := new(big.Int).Mul(amountB, total)
		byB.Div(byB, reserveB)
		issued = minInt(byA, byB)
		if issued.Sign() == 0 {
			return nil, ErrInsufficientLiquidityMinted
		}
	}

	newReserveA := new(big.Int).Add(reserveA, amountA)
	newReserveB := new(big.Int).Add(reserveB, amountB)
	if newReserveA.Cmp(reserve.Max) > 0 || newReserveB.Cmp(reserve.Max) > 0 {
		return nil, ErrReserveOverflow
	}

	// Inbound legs complete before reserve state is considered valid.
	if err := p.transfers.Pull(ctx, p.assetA, caller, amountA); err != nil {
		return nil, fmt.Errorf("pull %s: %w", p.assetA.Hex(), err)
	}
	if err := p.transfers.Pull(ctx, p.assetB, caller, amountB); err != nil {
		if pushErr := p.transfers.Push(ctx, p.assetA, caller, amountA); pushErr != nil {
			return nil, fmt.Errorf("refund %s after failed pull: %v: %w", p.assetA.Hex(), pushErr, err)
		}
		return nil, fmt.Errorf("pull %s: %w", p.assetB.Hex(), err)
	}

	if err := p.reserves.Set(newReserveA, newReserveB); err != nil {
		return nil, ErrReserveOverflow
	}
	if first {
		if err := p.shares.Credit(Sink, MinimumLiquidity); err != nil {
			return nil, err
		}
	}
	if err := p.shares.Credit(recipient, issued); err != nil {
		return nil, err
	}

	p.logger.Info("mint",
		zap.String("recipient", recipient.Hex()),
		zap.String("amount_a", amountA.String()),
		zap.String("amount_b", amountB.String()),
		zap.String("shares", issued.String()),
		zap.Bool("first_deposit", first),
	)

	return issued, nil
}

// Burn redeems the caller's shares pro rata and releases both assets to the
// recipient. Floor division means redemption never exceeds the proportional
// claim; dust stays in the pool.
func (p *Pool) Burn(ctx context.Context, caller common.Address, shares *big.Int, recipient common.Address) (*big.Int, *big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if recipient == (common.Address{}) {
		return nil, nil, ErrZeroAddress
	}
	// Callers are not authenticated, so the sink must be rejected explicitly
	// or the minimum-liquidity lock would be redeemable by anyone naming it.
	if caller == Sink {
		return nil, nil, ErrLockedShares
	}
	shares = normalize(shares)
	total := p.shares.TotalSupply()
	if shares.Sign() <= 0 || total.Sign() == 0 {
		return nil, nil, ErrInsufficientLiquidityBurned
	}

	reserveA, reserveB := p.reserves.Get()
	amountA := new(big.Int).Mul(shares, reserveA)
	amountA.Div(amountA, total)
	amountB := new(big.Int).Mul(shares, reserveB)
	amountB.Div(amountB, total)
	if amountA.Sign() == 0 || amountB.Sign() == 0 {
		return nil, nil, ErrInsufficientLiquidityBurned
	}

	if err := p.shares.Debit(caller, shares); err != nil {
		return nil, nil, err
	}

	newReserveA := new(big.Int).Sub(reserveA, amountA)
	newReserveB := new(big.Int).Sub(reserveB, amountB)
	if err := p.reserves.Set(newReserveA, newReserveB); err != nil {
		if creditErr := p.shares.Credit(caller, shares); creditErr != nil {
			p.logger.Error("burn unwind: restore shares", zap.Error(creditErr))
		}
		return nil, nil, err
	}

	// State is committed; outbound legs come last. A failed push unwinds the
	// commit under the same lock, so no intermediate state is observable.
	if err := p.transfers.Push(ctx, p.assetA, recipient, amountA); err != nil {
		p.unwindBurn(ctx, caller, recipient, shares, reserveA, reserveB, nil)
		return nil, nil, fmt.Errorf("push %s: %w", p.assetA.Hex(), err)
	}
	if err := p.transfers.Push(ctx, p.assetB, recipient, amountB); err != nil {
		p.unwindBurn(ctx, caller, recipient, shares, reserveA, reserveB, amountA)
		return nil, nil, fmt.Errorf("push %s: %w", p.assetB.Hex(), err)
	}

	p.logger.Info("burn",
		zap.String("recipient", recipient.Hex()),
		zap.String("shares", shares.String()),
		zap.String("amount_a", amountA.String()),
		zap.String("amount_b", amountB.String()),
	)

	return amountA, amountB, nil
}

// unwindBurn reverts a committed burn after a failed outbound leg. pulledA is
// the already-delivered assetA amount to claw back, nil when none was sent.
// Unwind failures leave pool state and custody desynchronized, so each one is
// logged at error level.
func (p *Pool) unwindBurn(ctx context.Context, caller, recipient common.Address, shares, reserveA, reserveB, pulledA *big.Int) {
	if pulledA != nil {
		if err := p.transfers.Pull(ctx, p.assetA, recipient, pulledA); err != nil {
			p.logger.Error("burn unwind: reclaim delivered assets", zap.Error(err))
		}
	}
	if err := p.reserves.Set(reserveA, reserveB); err != nil {
		p.logger.Error("burn unwind: restore reserves", zap.Error(err))
	}
	if err := p.shares.Credit(caller, shares); err != nil {
		p.logger.Error("burn unwind: restore shares", zap.Error(err))
	}
}

// Swap trades amountIn of tokenIn for the other asset, enforcing the
// caller's slippage guard and the fee-adjusted constant-product invariant.
func (p *Pool) Swap(ctx context.Context, caller common.Address, amountIn *big.Int, tokenIn common.Address, minAmountOut *big.Int, recipient common.Address) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if recipient == (common.Address{}) {
		return nil, ErrZeroAddress
	}

	reserveIn, reserveOut, tokenOut, err := p.orient(tokenIn)
	if err != nil {
		return nil, err
	}

	amountOut, err := AmountOut(amountIn, reserveIn, reserveOut)
	if err != nil {
		return nil, err
	}
	if minAmountOut != nil && amountOut.Cmp(minAmountOut) < 0 {
		return nil, ErrInsufficientOutputAmount
	}

	newReserveIn := new(big.Int).Add(reserveIn, amountIn)
	if newReserveIn.Cmp(reserve.Max) > 0 {
		return nil, ErrReserveOverflow
	}
	newReserveOut := new(big.Int).Sub(reserveOut, amountOut)

	if err := checkInvariant(reserveIn, reserveOut, newReserveIn, newReserveOut, amountIn); err != nil {
		return nil, err
	}

	if err := p.transfers.Pull(ctx, tokenIn, caller, amountIn); err != nil {
		return nil, fmt.Errorf("pull %s: %w", tokenIn.Hex(), err)
	}

	reserveA, reserveB := canonicalOrder(p.assetA, tokenIn, newReserveIn, newReserveOut)
	if err := p.reserves.Set(reserveA, reserveB); err != nil {
		if pushErr := p.transfers.Push(ctx, tokenIn, caller, amountIn); pushErr != nil {
			p.logger.Error("swap unwind: refund input", zap.Error(pushErr))
		}
		return nil, err
	}

	if err := p.transfers.Push(ctx, tokenOut, recipient, amountOut); err != nil {
		oldA, oldB := canonicalOrder(p.assetA, tokenIn, reserveIn, reserveOut)
		if setErr := p.reserves.Set(oldA, oldB); setErr != nil {
			p.logger.Error("swap unwind: restore reserves", zap.Error(setErr))
		}
		if pushErr := p.transfers.Push(ctx, tokenIn, caller, amountIn); pushErr != nil {
			p.logger.Error("swap unwind: refund input", zap.Error(pushErr))
		}
		return nil, fmt.Errorf("push %s: %w", tokenOut.Hex(), err)
	}

	p.logger.Info("swap",
		zap.String("token_in", tokenIn.Hex()),
		zap.String("amount_in", amountIn.String()),
		zap.String("amount_out", amountOut.String()),
		zap.String("recipient", recipient.Hex()),
	)

	return amountOut, nil
}

// orient resolves the in/out reserves and the output asset for tokenIn.
func (p *Pool) orient(tokenIn common.Address) (reserveIn, reserveOut *big.Int, tokenOut common.Address, err error) {
	reserveA, reserveB := p.reserves.Get()
	switch tokenIn {
	case p.assetA:
		return reserveA, reserveB, p.assetB, nil
	case p.assetB:
		return reserveB, reserveA, p.assetA, nil
	default:
		return nil, nil, common.Address{}, ErrUnknownAsset
	}
}

// checkInvariant verifies, on the fee-adjusted balances, that K did not
// decrease. Unreachable given correct arithmetic above; it is a safety net,
// not a recoverable path.
func checkInvariant(reserveIn, reserveOut, newReserveIn, newReserveOut, amountIn *big.Int) error {
	adjustedIn := new(big.Int).Mul(newReserveIn, feeDenom)
	feePart := new(big.Int).Mul(amountIn, big.NewInt(feeDenominator-feeRetentionNumerator))
	adjustedIn.Sub(adjustedIn, feePart)

	left := new(big.Int).Mul(adjustedIn, newReserveOut)
	right := new(big.Int).Mul(reserveIn, reserveOut)
	right.Mul(right, feeDenom)

	if left.Cmp(right) < 0 {
		return ErrInvariantViolation
	}
	return nil
}

// canonicalOrder maps oriented in/out reserves back to canonical (A, B) order.
func canonicalOrder(assetA, tokenIn common.Address, reserveIn, reserveOut *big.Int) (*big.Int, *big.Int) {
	if tokenIn == assetA {
		return reserveIn, reserveOut
	}
	return reserveOut, reserveIn
}

func normalize(value *big.Int) *big.Int {
	if value == nil {
		return big.NewInt(0)
	}
	return value
}
