package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	ItemHandler        *ItemHandler
	ReservationHandler *ReservationHandler
	ReviewHandler      *ReviewHandler
}
