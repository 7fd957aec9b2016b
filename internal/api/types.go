package api

// memberRequest whitelists a single identity.
type memberRequest struct {
	Address string `json:"address"`
}

// memberBatchRequest whitelists several identities at once.
type memberBatchRequest struct {
	Addresses []string `json:"addresses"`
}

// attestationRequest submits a like/dislike about the target.
type attestationRequest struct {
	Target string `json:"target"`
	Like   bool   `json:"like"`
}

// depositRequest credits the pool with a decimal amount of pool units.
type depositRequest struct {
	Amount string `json:"amount"`
}

// endpointRequest replaces the attestation service endpoint.
type endpointRequest struct {
	Endpoint string `json:"endpoint"`
}

type memberResponse struct {
	Address string `json:"address"`
}

type memberBatchResponse struct {
	Added int `json:"added"`
}

type withdrawalResponse struct {
	Address   string `json:"address"`
	Amount    string `json:"amount"`
	Balance   string `json:"balance"`
	Emergency bool   `json:"emergency,omitempty"`
}

type reputationResponse struct {
	Address         string `json:"address"`
	Likes           uint64 `json:"likes"`
	Dislikes        uint64 `json:"dislikes"`
	WithdrawalLimit uint32 `json:"withdrawal_limit"`
}

type poolResponse struct {
	Balance string `json:"balance"`
	Members int    `json:"members"`
}

type endpointResponse struct {
	Endpoint string `json:"endpoint"`
}
