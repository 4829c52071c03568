package domain

// FetchStatus - состояние загрузки данных станции для панели
type FetchStatus string

const (
	StatusLoading FetchStatus = "loading"
	StatusLoaded  FetchStatus = "loaded"
	StatusFailed  FetchStatus = "failed"
)

// BannerKind - какой баннер показывать при ошибке
type BannerKind string

const (
	BannerNone         BannerKind = ""
	BannerConnectivity BannerKind = "connectivity"
	BannerServer       BannerKind = "server"
)

// FetchError - ошибка загрузки в виде, пригодном для отображения
type FetchError struct {
	Kind       string     `json:"kind"`
	Message    string     `json:"message"`
	Suggestion string     `json:"suggestion,omitempty"`
	Banner     BannerKind `json:"banner"`
	Retryable  bool       `json:"retryable"`
}

// FetchState - явный конечный автомат Loading | Loaded | Failed.
// UI только отображает текущее состояние.
type FetchState struct {
	Status     FetchStatus           `json:"status"`
	Payload    *CachedStationPayload `json:"payload,omitempty"`
	Provenance Provenance            `json:"provenance,omitempty"`
	Stale      bool                  `json:"stale,omitempty"`
	Error      *FetchError           `json:"error,omitempty"`
}

func Loading() FetchState {
	return FetchState{Status: StatusLoading}
}

func Loaded(payload *CachedStationPayload, provenance Provenance, stale bool) FetchState {
	return FetchState{
		Status:     StatusLoaded,
		Payload:    payload,
		Provenance: provenance,
		Stale:      stale,
	}
}

func Failed(fe FetchError) FetchState {
	return FetchState{Status: StatusFailed, Error: &fe}
}

// Resolve переводит Loading в конечное состояние. Из конечного состояния
// переход возможен только через новый Loading (повторная попытка).
func (s FetchState) Resolve(next FetchState) FetchState {
	if s.Status != StatusLoading || next.Status == StatusLoading {
		return s
	}
	return next
}

// Retry возвращает состояние Loading, если текущее состояние допускает повтор
func (s FetchState) Retry() (FetchState, bool) {
	if s.Status == StatusFailed && s.Error != nil && s.Error.Retryable {
		return Loading(), true
	}
	return s, false
}

func (s FetchState) Terminal() bool {
	return s.Status == StatusLoaded || s.Status == StatusFailed
}
