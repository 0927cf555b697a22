package sizing

// CardSizing holds both lower bounds and the binding receiving card count.
type CardSizing struct {
	ByPixels  int
	ByModules int
	Count     int
}

// SizeCards returns the receiving card count satisfying both the pixel
// capacity and the modules-per-card constraint.
func SizeCards(totalPixels, cardCapacityPx, moduleCount, modulesPerCard int, extra bool) (CardSizing, error) {
	if cardCapacityPx <= 0 {
		return CardSizing{}, invalid(ErrInvalidCapacity, "card_id", "card capacity must be positive, got %d", cardCapacityPx)
	}
	if modulesPerCard <= 0 {
		return CardSizing{}, invalid(ErrInvalidCapacity, "modules_per_card", "must be positive, got %d", modulesPerCard)
	}
	s := CardSizing{
		ByPixels:  ceilDivInt(totalPixels, cardCapacityPx),
		ByModules: ceilDivInt(moduleCount, modulesPerCard),
	}
	s.Count = maxInt(s.ByPixels, s.ByModules)
	if extra {
		s.Count++
	}
	return s, nil
}
