package melon

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const fundRankingABIJSON = `[
  {"inputs": [{"name": "_version", "type": "address"}], "name": "getFundDetails", "outputs": [
    {"name": "", "type": "address[]"}, {"name": "", "type": "uint256[]"}, {"name": "", "type": "uint256[]"},
    {"name": "", "type": "bytes32[]"}, {"name": "", "type": "address[]"}
  ], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "_version", "type": "address"}], "name": "getFundGavs", "outputs": [
    {"name": "", "type": "address[]"}, {"name": "", "type": "uint256[]"}
  ], "stateMutability": "view", "type": "function"}
]`

const priceSourceABIJSON = `[
  {"inputs": [], "name": "getQuoteAsset", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "_assets", "type": "address[]"}], "name": "getPrices", "outputs": [
    {"name": "prices", "type": "uint256[]"}, {"name": "timestamps", "type": "uint256[]"}
  ], "stateMutability": "view", "type": "function"}
]`

const hubABIJSON = `[
  {"inputs": [], "name": "routes", "outputs": [
    {"name": "accounting", "type": "address"}, {"name": "feeManager", "type": "address"},
    {"name": "participation", "type": "address"}, {"name": "policyManager", "type": "address"},
    {"name": "shares", "type": "address"}, {"name": "trading", "type": "address"},
    {"name": "vault", "type": "address"}, {"name": "registry", "type": "address"},
    {"name": "version", "type": "address"}, {"name": "engine", "type": "address"},
    {"name": "mlnToken", "type": "address"}
  ], "stateMutability": "view", "type": "function"}
]`

const accountingABIJSON = `[
  {"inputs": [], "name": "getFundHoldings", "outputs": [
    {"name": "", "type": "uint256[]"}, {"name": "", "type": "address[]"}
  ], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "performCalculations", "outputs": [
    {"name": "gav", "type": "uint256"}, {"name": "feesInDenominationAsset", "type": "uint256"},
    {"name": "feesInShares", "type": "uint256"}, {"name": "nav", "type": "uint256"},
    {"name": "sharePrice", "type": "uint256"}, {"name": "gavPerShareNetManagementFee", "type": "uint256"}
  ], "stateMutability": "view", "type": "function"}
]`

const sharesABIJSON = `[
  {"inputs": [], "name": "decimals", "outputs": [{"name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "_owner", "type": "address"}], "name": "balanceOf", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

const participationABIJSON = `[
  {"inputs": [], "name": "getHistoricalInvestors", "outputs": [{"name": "", "type": "address[]"}], "stateMutability": "view", "type": "function"}
]`

const feeManagerABIJSON = `[
  {"inputs": [{"name": "", "type": "uint256"}], "name": "fees", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"}
]`

const managementFeeABIJSON = `[
  {"inputs": [{"name": "", "type": "address"}], "name": "managementFeeRate", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

const performanceFeeABIJSON = `[
  {"inputs": [{"name": "", "type": "address"}], "name": "performanceFeeRate", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

const tradingABIJSON = `[
  {"inputs": [], "name": "getExchangeInfo", "outputs": [
    {"name": "", "type": "address[]"}, {"name": "", "type": "address[]"}, {"name": "", "type": "bool[]"}
  ], "stateMutability": "view", "type": "function"}
]`

// lazyABI parses its JSON on first use.
type lazyABI struct {
	json   string
	once   sync.Once
	parsed abi.ABI
	err    error
}

func (l *lazyABI) instance() (abi.ABI, error) {
	l.once.Do(func() {
		l.parsed, l.err = abi.JSON(strings.NewReader(l.json))
	})
	return l.parsed, l.err
}

var (
	fundRankingABI    = &lazyABI{json: fundRankingABIJSON}
	priceSourceABI    = &lazyABI{json: priceSourceABIJSON}
	hubABI            = &lazyABI{json: hubABIJSON}
	accountingABI     = &lazyABI{json: accountingABIJSON}
	sharesABI         = &lazyABI{json: sharesABIJSON}
	participationABI  = &lazyABI{json: participationABIJSON}
	feeManagerABI     = &lazyABI{json: feeManagerABIJSON}
	managementFeeABI  = &lazyABI{json: managementFeeABIJSON}
	performanceFeeABI = &lazyABI{json: performanceFeeABIJSON}
	tradingABI        = &lazyABI{json: tradingABIJSON}
)
