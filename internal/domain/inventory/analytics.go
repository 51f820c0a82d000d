package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// ABCClass clase de valor de un SKU.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

var (
	hundred    = decimal.NewFromInt(100)
	thresholdA = decimal.NewFromInt(70)
	thresholdB = decimal.NewFromInt(90)
)

// ClassifyABC clasifica según el porcentaje acumulado (0-100) de valor.
func ClassifyABC(cumulativePct decimal.Decimal) ABCClass {
	switch {
	case cumulativePct.LessThanOrEqual(thresholdA):
		return ClassA
	case cumulativePct.LessThanOrEqual(thresholdB):
		return ClassB
	default:
		return ClassC
	}
}

// Percentage part/total*100; ok=false si total es cero.
func Percentage(part, total decimal.Decimal) (decimal.Decimal, bool) {
	if total.IsZero() {
		return decimal.Zero, false
	}
	return part.Mul(hundred).Div(total), true
}

// AgeingBucket categoría de vencimiento.
type AgeingBucket string

const (
	BucketExpired      AgeingBucket = "Expired"
	BucketExpiringSoon AgeingBucket = "Expiring Soon"
	BucketMedium       AgeingBucket = "Medium"
	BucketGood         AgeingBucket = "Good"
	BucketFresh        AgeingBucket = "Fresh"
)

// AgeingBuckets en orden de presentación.
var AgeingBuckets = []AgeingBucket{BucketExpired, BucketExpiringSoon, BucketMedium, BucketGood, BucketFresh}

// DaysUntil días (redondeados hacia arriba) entre now y expiry; negativo si ya venció.
func DaysUntil(now, expiry time.Time) int {
	d := expiry.Sub(now)
	days := int(d / (24 * time.Hour))
	if d > 0 && d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// BucketFor clasifica por días hasta el vencimiento.
func BucketFor(daysUntilExpiry int) AgeingBucket {
	switch {
	case daysUntilExpiry < 0:
		return BucketExpired
	case daysUntilExpiry <= 30:
		return BucketExpiringSoon
	case daysUntilExpiry <= 90:
		return BucketMedium
	case daysUntilExpiry <= 180:
		return BucketGood
	default:
		return BucketFresh
	}
}

// Turnover calcula rotación (COGS / valor de inventario) y días de inventario (365 / rotación).
// Ambos son cero cuando el denominador es cero.
func Turnover(cogs, inventoryValue decimal.Decimal) (ratio, days decimal.Decimal) {
	if inventoryValue.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	ratio = cogs.Div(inventoryValue)
	if ratio.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	return ratio, decimal.NewFromInt(365).Div(ratio)
}
