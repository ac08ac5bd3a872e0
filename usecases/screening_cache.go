package usecases

// ScreeningCache is the full cache surface, satisfied by both the redis and
// the in-process implementations. The orchestrator and the override usecase
// each consume their own slice of it.
type ScreeningCache interface {
	ScreeningResultCache
	ScreeningFlagCache
}
