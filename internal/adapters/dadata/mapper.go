package dadata

import (
	"strconv"

	"github.com/mmcloughlin/geohash"
	"github.com/tidwall/gjson"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

// addressRecordFromData извлекает используемые поля адреса.
// В ответе findById канонической строки result нет, вместо нее value
func addressRecordFromData(data gjson.Result) *domain.AddressRecord {
	result := data.Get("result").String()
	if result == "" {
		result = data.Get("value").String()
	}

	record := &domain.AddressRecord{
		Result:        result,
		PostalCode:    data.Get("postal_code").String(),
		RegionKladrID: data.Get("region_kladr_id").String(),
		RegionFiasID:  data.Get("region_fias_id").String(),
		CityWithType:  data.Get("city_with_type").String(),
		StreetWithTyp: data.Get("street_with_type").String(),
		House:         data.Get("house").String(),
		HouseCadnum:   data.Get("house_cadnum").String(),
		FlatFiasID:    data.Get("flat_fias_id").String(),
		FlatCadnum:    data.Get("flat_cadnum").String(),
		Flat:          data.Get("flat").String(),
		FlatArea:      data.Get("flat_area").String(),
		Floor:         data.Get("floor").String(),
		FiasID:        data.Get("fias_id").String(),
		FiasLevel:     data.Get("fias_level").String(),
		GeoLat:        data.Get("geo_lat").String(),
		GeoLon:        data.Get("geo_lon").String(),
	}

	if record.GeoLat != "" && record.GeoLon != "" {
		record.MapsLink = domain.BuildMapsLink(record.GeoLat, record.GeoLon)
		lat, latErr := strconv.ParseFloat(record.GeoLat, 64)
		lon, lonErr := strconv.ParseFloat(record.GeoLon, 64)
		if latErr == nil && lonErr == nil {
			record.Geohash = geohash.Encode(lat, lon)
		}
	}
	return record
}

func partyRecordFromSuggestion(suggestion gjson.Result) *domain.PartyRecord {
	data := suggestion.Get("data")

	record := &domain.PartyRecord{
		INN:         data.Get("inn").String(),
		OGRN:        data.Get("ogrn").String(),
		KPP:         data.Get("kpp").String(),
		ShortName:   data.Get("name.short_with_opf").String(),
		State:       data.Get("state.status").String(),
		EIOName:     data.Get("management.name").String(),
		EIOPosition: data.Get("management.post").String(),
	}
	for _, email := range data.Get("emails.#.value").Array() {
		record.Emails = append(record.Emails, email.String())
	}
	return record
}
