package couriercheck

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/BearBump/CourierGate/internal/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestNormalize_AllProviders(t *testing.T) {
	out := Normalize(
		[]byte(`{"total_delivered":12,"total_cancelled":3,"other":"x"}`),
		[]byte(`{"data":{"customer":{"total_delivery":9,"successful_delivery":7}}}`),
		[]byte(`{"data":{"totalParcels":"10","deliveredParcels":"8"}}`),
	)
	require.Equal(t, models.ParcelSummary{Total: 15, Delivered: 12, Canceled: 3}, out.Summaries.Steadfast)
	require.Equal(t, models.ParcelSummary{Total: 10, Delivered: 8, Canceled: 2}, out.Summaries.RedX)
	require.Equal(t, models.DeliverySummary{Total: 9, Successful: 7, Canceled: 2}, out.Summaries.Pathao)
}

func TestNormalize_JSONShape(t *testing.T) {
	b, err := json.Marshal(Normalize(nil, nil, nil))
	require.NoError(t, err)
	require.JSONEq(t, `{"Summaries":{
		"Steadfast":{"Total Parcels":0,"Delivered Parcels":0,"Canceled Parcels":0},
		"RedX":{"Total Parcels":0,"Delivered Parcels":0,"Canceled Parcels":0},
		"Pathao":{"Total Delivery":0,"Successful Delivery":0,"Canceled Delivery":0}}}`, string(b))
}

func TestNormalize_PartialFailureIsolated(t *testing.T) {
	cases := []struct {
		name      string
		steadfast string
		pathao    string
		redx      string
	}{
		{name: "html instead of json", steadfast: `<html>login</html>`},
		{name: "missing field", steadfast: `{"total_delivered":1}`},
		{name: "null field", steadfast: `{"total_delivered":1,"total_cancelled":null}`},
		{name: "array", steadfast: `[1,2]`},
		{name: "redx data missing", redx: `{"message":"unauthorized"}`},
		{name: "pathao customer missing", pathao: `{"data":{}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			good := `{"data":{"totalParcels":5,"deliveredParcels":4}}`
			redx := tc.redx
			if redx == "" {
				redx = good
			}
			out := Normalize([]byte(tc.steadfast), []byte(tc.pathao), []byte(redx))
			if tc.redx == "" {
				require.Equal(t, models.ParcelSummary{Total: 5, Delivered: 4, Canceled: 1}, out.Summaries.RedX)
			} else {
				require.Equal(t, models.ParcelSummary{}, out.Summaries.RedX)
			}
			require.Equal(t, models.ParcelSummary{}, out.Summaries.Steadfast)
			require.Equal(t, models.DeliverySummary{}, out.Summaries.Pathao)
		})
	}
}

func TestNormalize_Coercion(t *testing.T) {
	out := Normalize(
		[]byte(`{"total_delivered":"7","total_cancelled":2.9}`),
		[]byte(`{"data":{"customer":{"total_delivery":"abc","successful_delivery":1}}}`),
		[]byte(`{"data":{"totalParcels":3,"deliveredParcels":5}}`),
	)
	require.Equal(t, models.ParcelSummary{Total: 9, Delivered: 7, Canceled: 2}, out.Summaries.Steadfast)
	// delivered > total: отмен не бывает меньше нуля
	require.Equal(t, models.ParcelSummary{Total: 3, Delivered: 5, Canceled: 0}, out.Summaries.RedX)
	require.Equal(t, models.DeliverySummary{Total: 0, Successful: 1, Canceled: 0}, out.Summaries.Pathao)
}

func TestNormalize_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("derived canceled equals total minus delivered", prop.ForAll(
		func(total, delivered int) bool {
			if delivered > total {
				delivered, total = total, delivered
			}
			out := Normalize(nil,
				[]byte(fmt.Sprintf(`{"data":{"customer":{"total_delivery":%d,"successful_delivery":%d}}}`, total, delivered)),
				[]byte(fmt.Sprintf(`{"data":{"totalParcels":"%d","deliveredParcels":%d}}`, total, delivered)),
			)
			return out.Summaries.RedX.Canceled == total-delivered &&
				out.Summaries.Pathao.Canceled == total-delivered
		},
		gen.IntRange(0, 100000),
		gen.IntRange(0, 100000),
	))

	properties.Property("fields are never negative for arbitrary input", prop.ForAll(
		func(a, b string) bool {
			out := Normalize([]byte(a), []byte(b), []byte(a+b))
			s := out.Summaries
			for _, v := range []int{
				s.Steadfast.Total, s.Steadfast.Delivered, s.Steadfast.Canceled,
				s.RedX.Total, s.RedX.Delivered, s.RedX.Canceled,
				s.Pathao.Total, s.Pathao.Successful, s.Pathao.Canceled,
			} {
				if v < 0 {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("negative counts clamp to zero", prop.ForAll(
		func(d, c int) bool {
			out := Normalize([]byte(fmt.Sprintf(`{"total_delivered":%d,"total_cancelled":%d}`, d, c)), nil, nil)
			sf := out.Summaries.Steadfast
			return sf.Delivered >= 0 && sf.Canceled >= 0 && sf.Total == sf.Delivered+sf.Canceled
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
