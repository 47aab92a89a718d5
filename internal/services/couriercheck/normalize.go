package couriercheck

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/BearBump/CourierGate/internal/models"
)

type steadfastResp struct {
	TotalDelivered json.RawMessage `json:"total_delivered"`
	TotalCancelled json.RawMessage `json:"total_cancelled"`
}

type redxResp struct {
	Data *struct {
		TotalParcels     json.RawMessage `json:"totalParcels"`
		DeliveredParcels json.RawMessage `json:"deliveredParcels"`
	} `json:"data"`
}

type pathaoResp struct {
	Data *struct {
		Customer *struct {
			TotalDelivery      json.RawMessage `json:"total_delivery"`
			SuccessfulDelivery json.RawMessage `json:"successful_delivery"`
		} `json:"customer"`
	} `json:"data"`
}

// Normalize сводит три сырых ответа в единый отчёт.
// nil или неразборчивый ответ даёт нули только для своего провайдера.
func Normalize(steadfast, pathao, redx []byte) models.CourierReport {
	var out models.CourierReport

	var sf steadfastResp
	if decodeObject(steadfast, &sf) && present(sf.TotalDelivered) && present(sf.TotalCancelled) {
		delivered, canceled := toCount(sf.TotalDelivered), toCount(sf.TotalCancelled)
		out.Summaries.Steadfast = models.ParcelSummary{
			Total:     delivered + canceled,
			Delivered: delivered,
			Canceled:  canceled,
		}
	}

	var rx redxResp
	if decodeObject(redx, &rx) && rx.Data != nil && present(rx.Data.TotalParcels) && present(rx.Data.DeliveredParcels) {
		total, delivered := toCount(rx.Data.TotalParcels), toCount(rx.Data.DeliveredParcels)
		out.Summaries.RedX = models.ParcelSummary{
			Total:     total,
			Delivered: delivered,
			Canceled:  nonNegative(total - delivered),
		}
	}

	var pt pathaoResp
	if decodeObject(pathao, &pt) && pt.Data != nil && pt.Data.Customer != nil &&
		present(pt.Data.Customer.TotalDelivery) && present(pt.Data.Customer.SuccessfulDelivery) {
		total, delivered := toCount(pt.Data.Customer.TotalDelivery), toCount(pt.Data.Customer.SuccessfulDelivery)
		out.Summaries.Pathao = models.DeliverySummary{
			Total:      total,
			Successful: delivered,
			Canceled:   nonNegative(total - delivered),
		}
	}

	return out
}

// decodeObject: только JSON-объект верхнего уровня.
func decodeObject(b []byte, v any) bool {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return false
	}
	return json.Unmarshal(b, v) == nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// toCount приводит число, числовую строку или bool к неотрицательному int.
// Всё прочее даёт 0.
func toCount(raw json.RawMessage) int {
	var v any
	if json.Unmarshal(raw, &v) != nil {
		return 0
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = p
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
