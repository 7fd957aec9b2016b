package api

import (
	"context"
	"errors"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"ReputePool/internal/pool"
	"ReputePool/internal/registry"
)

const (
	// APIRoute is the common prefix of all pool routes.
	APIRoute = "/api/v1"

	// RouteWithdrawals is the route to withdraw the caller's limit share.
	// POST transfers funds and advances the caller's cooldown timestamp.
	RouteWithdrawals = "/withdrawals"

	// RouteAttestations is the route to submit a like/dislike about another participant.
	// POST relays the record to the attestation service and updates the target's reputation.
	RouteAttestations = "/attestations"

	// RouteDeposits is the route to credit the shared pool balance.
	// POST accepts a decimal amount of pool units.
	RouteDeposits = "/deposits"

	// RouteParticipantReputation is the route to read a participant's reputation stats.
	// GET returns likes, dislikes and the derived withdrawal limit; unknown identities return zeros.
	RouteParticipantReputation = "/participants/:" + ParameterAddress + "/reputation"

	// RoutePool is the route to read the pool summary.
	// GET returns the current balance and member count.
	RoutePool = "/pool"

	// RouteAdminMembers is the route the pool owner uses to whitelist a single identity.
	// POST seeds the participant record with the default withdrawal limit.
	RouteAdminMembers = "/admin/members"

	// RouteAdminMembersBatch is the route the pool owner uses to whitelist a batch.
	// POST skips zero addresses and duplicates and responds with the count actually added.
	RouteAdminMembersBatch = "/admin/members/batch"

	// RouteAdminEmergencyWithdrawal is the route the pool owner uses to drain the pool.
	// POST transfers the entire balance to the owner.
	RouteAdminEmergencyWithdrawal = "/admin/emergency-withdrawal"

	// RouteAdminAttestationEndpoint is the route the pool owner uses to repoint the attestation service.
	// PUT replaces the stored endpoint for all subsequent attestations.
	RouteAdminAttestationEndpoint = "/admin/attestation-endpoint"

	// ParameterAddress is used to identify a participant by address.
	ParameterAddress = "address"

	// HeaderCaller carries the caller's authenticated principal. Upstream
	// authentication is out of scope; the pool re-checks authorization.
	HeaderCaller = "X-Pool-Caller"
)

// Server exposes the pool operations over HTTP.
type Server struct {
	echo *echo.Echo
	pool *pool.Manager
}

// NewServer creates the HTTP surface for the given pool.
func NewServer(pm *pool.Manager) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	s := &Server{echo: e, pool: pm}
	s.setupRoutes(e.Group(APIRoute))
	return s
}

// Start serves until Shutdown is called.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes(g *echo.Group) {

	g.POST(RouteWithdrawals, func(c echo.Context) error {
		caller, err := callerAddress(c)
		if err != nil {
			return err
		}
		amount, err := s.pool.Withdraw(caller)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, &withdrawalResponse{
			Address: caller.Hex(),
			Amount:  amount.String(),
			Balance: s.pool.Balance().String(),
		})
	})

	g.POST(RouteAttestations, func(c echo.Context) error {
		caller, err := callerAddress(c)
		if err != nil {
			return err
		}
		req := &attestationRequest{}
		if err := c.Bind(req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		target, err := parseAddress(req.Target)
		if err != nil {
			return err
		}
		if err := s.pool.SubmitAttestation(caller, target, req.Like); err != nil {
			return httpError(err)
		}
		stats := s.pool.ReputationStats(target)
		return c.JSON(http.StatusOK, &reputationResponse{
			Address:         target.Hex(),
			Likes:           stats.Likes,
			Dislikes:        stats.Dislikes,
			WithdrawalLimit: stats.WithdrawalLimit,
		})
	})

	g.POST(RouteDeposits, func(c echo.Context) error {
		req := &depositRequest{}
		if err := c.Bind(req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		amount, ok := new(big.Int).SetString(req.Amount, 10)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "amount must be a decimal integer")
		}
		if err := s.pool.Deposit(amount); err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, &poolResponse{
			Balance: s.pool.Balance().String(),
			Members: s.pool.Snapshot().Members,
		})
	})

	g.GET(RouteParticipantReputation, func(c echo.Context) error {
		addr, err := parseAddress(c.Param(ParameterAddress))
		if err != nil {
			return err
		}
		stats := s.pool.ReputationStats(addr)
		return c.JSON(http.StatusOK, &reputationResponse{
			Address:         addr.Hex(),
			Likes:           stats.Likes,
			Dislikes:        stats.Dislikes,
			WithdrawalLimit: stats.WithdrawalLimit,
		})
	})

	g.GET(RoutePool, func(c echo.Context) error {
		snap := s.pool.Snapshot()
		return c.JSON(http.StatusOK, &poolResponse{
			Balance: snap.Balance.String(),
			Members: snap.Members,
		})
	})

	g.POST(RouteAdminMembers, func(c echo.Context) error {
		caller, err := callerAddress(c)
		if err != nil {
			return err
		}
		req := &memberRequest{}
		if err := c.Bind(req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		identity, err := parseAddress(req.Address)
		if err != nil {
			return err
		}
		if err := s.pool.AddMember(caller, identity); err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusCreated, &memberResponse{Address: identity.Hex()})
	})

	g.POST(RouteAdminMembersBatch, func(c echo.Context) error {
		caller, err := callerAddress(c)
		if err != nil {
			return err
		}
		req := &memberBatchRequest{}
		if err := c.Bind(req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		identities := make([]common.Address, 0, len(req.Addresses))
		for _, raw := range req.Addresses {
			// Malformed entries behave like the zero identity: skipped, not fatal.
			if !common.IsHexAddress(raw) {
				identities = append(identities, common.Address{})
				continue
			}
			identities = append(identities, common.HexToAddress(raw))
		}
		added, err := s.pool.AddMembers(caller, identities)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, &memberBatchResponse{Added: added})
	})

	g.POST(RouteAdminEmergencyWithdrawal, func(c echo.Context) error {
		caller, err := callerAddress(c)
		if err != nil {
			return err
		}
		amount, err := s.pool.EmergencyWithdraw(caller)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, &withdrawalResponse{
			Address:   caller.Hex(),
			Amount:    amount.String(),
			Balance:   "0",
			Emergency: true,
		})
	})

	g.PUT(RouteAdminAttestationEndpoint, func(c echo.Context) error {
		caller, err := callerAddress(c)
		if err != nil {
			return err
		}
		req := &endpointRequest{}
		if err := c.Bind(req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if err := s.pool.SetAttestationService(caller, req.Endpoint); err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, &endpointResponse{Endpoint: req.Endpoint})
	})
}

func callerAddress(c echo.Context) (common.Address, error) {
	raw := c.Request().Header.Get(HeaderCaller)
	if !common.IsHexAddress(raw) {
		return common.Address{}, echo.NewHTTPError(http.StatusBadRequest, "missing or malformed "+HeaderCaller+" header")
	}
	return common.HexToAddress(raw), nil
}

func parseAddress(raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, echo.NewHTTPError(http.StatusBadRequest, "malformed address")
	}
	return common.HexToAddress(raw), nil
}

// httpError maps domain errors onto HTTP statuses.
func httpError(err error) error {
	switch {
	case errors.Is(err, pool.ErrUnauthorized), errors.Is(err, pool.ErrNotWhitelisted):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, registry.ErrAlreadyMember), errors.Is(err, pool.ErrPoolEmpty):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, registry.ErrInvalidIdentity),
		errors.Is(err, pool.ErrSelfRating),
		errors.Is(err, pool.ErrInvalidEndpoint),
		errors.Is(err, pool.ErrInvalidAmount):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, pool.ErrCooldownActive):
		return echo.NewHTTPError(http.StatusTooEarly, err.Error())
	case errors.Is(err, pool.ErrAmountTooSmall):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, pool.ErrReentrantCall):
		return echo.NewHTTPError(http.StatusLocked, err.Error())
	case errors.Is(err, pool.ErrTransferFailed), errors.Is(err, pool.ErrAttestationFailed):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
