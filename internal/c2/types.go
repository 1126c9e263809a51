package c2

// Wire types for the Collective2 REST API. Field names follow the platform's
// JSON exactly; encoding/json's case-insensitive matching also absorbs the
// lowercase variants some endpoints return.

// wireSymbol is the ExchangeSymbol payload on order submission. PutOrCall
// is an int code here (1=call, 0=put); responses spell it out as the words
// "call"/"put", which wireC2Symbol carries as a string.
type wireSymbol struct {
	Symbol            string  `json:"Symbol"`
	Currency          string  `json:"Currency"`
	SecurityExchange  string  `json:"SecurityExchange,omitempty"`
	SecurityType      string  `json:"SecurityType"`
	MaturityMonthYear string  `json:"MaturityMonthYear,omitempty"`
	PutOrCall         *int    `json:"PutOrCall,omitempty"`
	StrikePrice       float64 `json:"StrikePrice,omitempty"`
}

// wireC2Symbol is the symbol object attached to positions and working
// orders.
type wireC2Symbol struct {
	FullSymbol  string  `json:"FullSymbol"`
	SymbolType  string  `json:"SymbolType"` // "stock" or "option"
	Underlying  string  `json:"Underlying"`
	StrikePrice float64 `json:"StrikePrice"`
	PutOrCall   string  `json:"PutOrCall"` // "call" or "put"
	Expiry      string  `json:"Expiry"`    // "Oct25" or "10/24/25"
}

// wireOrder is the Order object for NewStrategyOrder.
type wireOrder struct {
	StrategyID     int64      `json:"StrategyId"`
	OrderType      string     `json:"OrderType"` // 1=market 2=limit 3=stop
	Side           string     `json:"Side"`      // 1=buy 2=sell
	OrderQuantity  int64      `json:"OrderQuantity"`
	TIF            string     `json:"TIF"` // 0=day 1=GTC
	Limit          string     `json:"Limit,omitempty"`
	Stop           string     `json:"Stop,omitempty"`
	StopLoss       *float64   `json:"StopLoss,omitempty"`
	ProfitTarget   *float64   `json:"ProfitTarget,omitempty"`
	CancelReplace  int64      `json:"CancelReplaceSignalId,omitempty"`
	ParentSignalID int64      `json:"ParentSignalId,omitempty"`
	ExchangeSymbol wireSymbol `json:"ExchangeSymbol"`
}

type newOrderRequest struct {
	Order wireOrder `json:"Order"`
}

type cancelRequest struct {
	StrategyID int64 `json:"StrategyId"`
	SignalID   int64 `json:"SignalId"`
}

// wireOrderResult is one entry of the Results array returned by
// NewStrategyOrder. Child signal IDs appear only for bracket orders.
type wireOrderResult struct {
	SignalID              int64 `json:"SignalId"`
	StopLossSignalID      int64 `json:"StopLossSignalId"`
	ProfitTargetSignalID  int64 `json:"ProfitTargetSignalId"`
	ExitSignalsOCAGroupID int64 `json:"ExitSignalsOCAGroupId"`
}

// wireWorkingOrder is one entry of GetStrategyWorkingOrders.
type wireWorkingOrder struct {
	SignalID      int64        `json:"SignalId"`
	C2Symbol      wireC2Symbol `json:"C2Symbol"`
	OrderType     string       `json:"OrderType"`
	Side          string       `json:"Side"`
	OrderQuantity float64      `json:"OrderQuantity"`
	Limit         string       `json:"Limit"`
	Stop          string       `json:"Stop"`
	TIF           string       `json:"TIF"`
	OrderStatus   string       `json:"OrderStatus"`
	PostedDate    string       `json:"PostedDate"`
}

// wirePosition is one entry of GetStrategyOpenPositions.
type wirePosition struct {
	C2Symbol   wireC2Symbol `json:"C2Symbol"`
	Quantity   float64      `json:"Quantity"`
	AvgPx      float64      `json:"AvgPx"`
	OpenedDate string       `json:"OpenedDate"`
}

// wireStrategyDetails is one entry of GetStrategyDetails.
type wireStrategyDetails struct {
	Equity            float64 `json:"Equity"`
	Cash              float64 `json:"Cash"`
	BuyingPower       float64 `json:"BuyingPower"`
	ModelAccountValue float64 `json:"ModelAccountValue"`
	StartingCash      float64 `json:"StartingCash"`
	MarginUsed        float64 `json:"MarginUsed"`
	NumTrades         int     `json:"NumTrades"`
	NumWinners        int     `json:"NumWinners"`
	NumLosers         int     `json:"NumLosers"`
	PercentWinTrades  float64 `json:"PercentWinTrades"`
}

// Profile is the account profile from General/GetProfile.
type Profile struct {
	PersonID  int64  `json:"PersonId"`
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
	Email     string `json:"Email"`
}

// ManagedStrategy is one strategy from General/GetManagerPlanSubscriptions.
type ManagedStrategy struct {
	StrategyID   int64  `json:"StrategyId"`
	StrategyName string `json:"StrategyName"`
}

// envelope is the platform's standard {"Results": [...]} wrapper.
type envelope[T any] struct {
	Results []T `json:"Results"`
}
