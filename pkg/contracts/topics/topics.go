package topics

const (
	WagerPlaced  = "wager_placed"
	WagerSettled = "wager_settled"
)
