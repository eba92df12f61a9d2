package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCadastre(t *testing.T) {
	assert.Equal(t, "780600020071234", NormalizeCadastre("78:06:0002007:1234"))
	assert.Equal(t, "780600020071234", NormalizeCadastre(" 78:06:0002007:1234 "))
	// Идемпотентность: повторная нормализация ничего не меняет
	assert.Equal(t, "780600020071234", NormalizeCadastre(NormalizeCadastre("78:06:0002007:1234")))
	assert.Equal(t, "", NormalizeCadastre(""))
}

func TestExtractDigits(t *testing.T) {
	assert.Equal(t, "2", ExtractDigits("2 комн."))
	assert.Equal(t, "84951234567", ExtractDigits("+7 (495) 123-45-67"))
	assert.Equal(t, "", ExtractDigits("нет данных"))
}

func TestParseLocalizedFloat(t *testing.T) {
	v, err := ParseLocalizedFloat("54,2")
	require.NoError(t, err)
	assert.InDelta(t, 54.2, v, 1e-9)

	v, err = ParseLocalizedFloat("54.2")
	require.NoError(t, err)
	assert.InDelta(t, 54.2, v, 1e-9)

	v, err = ParseLocalizedFloat("")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = ParseLocalizedFloat(ErrorValue)
	assert.Error(t, err)
}

func TestGUIDFromCardLink(t *testing.T) {
	guid, err := GUIDFromCardLink("https://dom.gosuslugi.ru/#!/house-view?guid=abc-123&typeCode=1")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", guid)

	// Ссылка обратима: построенная ссылка разбирается в тот же guid
	guid, err = GUIDFromCardLink(BuildCardLink("11111111-2222-3333-4444-555555555555"))
	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", guid)

	_, err = GUIDFromCardLink("https://dom.gosuslugi.ru/#!/house-view")
	assert.Error(t, err)

	_, err = GUIDFromCardLink("https://dom.gosuslugi.ru/#!/house-view?typeCode=1")
	assert.Error(t, err)
}

func TestRoomAddress(t *testing.T) {
	assert.Equal(t, "г. Москва, ул. Ленина, д. 1, кв.5", RoomAddress("г. Москва, ул. Ленина, д. 1", "5", RoomResidential))
	assert.Equal(t, "г. Москва, ул. Ленина, д. 1, пом. 3-Н", RoomAddress("г. Москва, ул. Ленина, д. 1", "3-Н", RoomNonResidential))
	assert.Equal(t, "г. Москва, ул. Ленина, д. 1, пом. 2-Н", RoomAddress("г. Москва, ул. Ленина, д. 1", "2-Н", RoomCommonProperty))
}

func TestAddressRecordRegionCode(t *testing.T) {
	record := AddressRecord{RegionKladrID: "7800000000000"}
	assert.Equal(t, "78", record.RegionCode())

	record = AddressRecord{RegionKladrID: "0200000000000"}
	assert.Equal(t, "2", record.RegionCode())

	record = AddressRecord{}
	assert.Equal(t, "", record.RegionCode())
}

func TestBuildingRowRoundTrip(t *testing.T) {
	b := &Building{
		ID: "780600020071234", Address: "г. СПб, ул. Мира, д. 5", CadastreNumber: "78:06:0002007:1234",
		ManagementINN: "7801010101", ResourceSupplyINNs: "7802020202;7803030303",
		CardLink: BuildCardLink("guid"), RegionCode: "78",
	}
	row := b.RowValues()
	require.Len(t, row, len(BuildingColumns))
	assert.Equal(t, b, BuildingFromRow(row))
}

func TestBuildingFromShortRow(t *testing.T) {
	// Строка, укороченная ручной правкой таблицы, дополняется пустыми ячейками
	b := BuildingFromRow([]string{"780600020071234", "адрес"})
	assert.Equal(t, "780600020071234", b.ID)
	assert.Equal(t, "адрес", b.Address)
	assert.Empty(t, b.CardLink)
}

func TestOrganizationEqual(t *testing.T) {
	org := &Organization{INN: "7801010101", Name: "ООО «ЖКС»", Link: BuildOrganizationLink("guid")}
	same := *org
	assert.True(t, org.Equal(&same))

	changed := *org
	changed.Phone = "84951234567"
	assert.False(t, org.Equal(&changed))
	assert.False(t, org.Equal(nil))
}

func TestRoomRowRoundTrip(t *testing.T) {
	r := &Room{
		ID: "780600020072001", BuildingID: "780600020071234", Number: "5",
		Status: RoomResidential, TotalArea: "54.2", FromRosreestr: "Да",
		Address: "г. СПб, ул. Мира, д. 5, кв.5",
	}
	row := r.RowValues()
	require.Len(t, row, len(RoomColumns))
	assert.Equal(t, r, RoomFromRow(row))
}
