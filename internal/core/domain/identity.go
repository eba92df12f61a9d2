package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrorValue - сентинел, записываемый в поле при сбое внешнего сервиса
const ErrorValue = "ОШИБКА"

// NormalizeCadastre превращает кадастровый номер в ключ хранения:
// убирает двоеточия. Операция идемпотентна
func NormalizeCadastre(cadNum string) string {
	return strings.ReplaceAll(strings.TrimSpace(cadNum), ":", "")
}

// ExtractDigits оставляет в строке только цифры
func ExtractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseLocalizedFloat разбирает число с точкой или запятой в роли
// десятичного разделителя. Пустая строка дает 0 без ошибки
func ParseLocalizedFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// GUIDFromCardLink извлекает guid дома из ссылки на карточку вида
// https://dom.gosuslugi.ru/#!/house-view?guid=...&typeCode=1
// Параметры запроса спрятаны во фрагменте, поэтому обычный URL-разбор не подходит
func GUIDFromCardLink(link string) (string, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("bad card link %q: %w", link, err)
	}
	_, query, found := strings.Cut(parsed.Fragment, "?")
	if !found {
		return "", fmt.Errorf("card link %q has no query in fragment", link)
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return "", fmt.Errorf("bad query in card link %q: %w", link, err)
	}
	guid := values.Get("guid")
	if guid == "" {
		return "", fmt.Errorf("card link %q has no guid", link)
	}
	return guid, nil
}

// Конструкторы канонических ссылок портала и внешних сервисов

func BuildCardLink(houseGUID string) string {
	return fmt.Sprintf("https://dom.gosuslugi.ru/#!/house-view?guid=%s&typeCode=1", houseGUID)
}

func BuildOrgsLink(fiasHouseCode, houseGUID, orgRootGUID string) string {
	return fmt.Sprintf("https://dom.gosuslugi.ru/#!/mkd?fiasHouseCode=%s&houseGuid=%s&orgRootGuid=%s",
		fiasHouseCode, houseGUID, orgRootGUID)
}

func BuildPassportLink(houseGUID string) string {
	return fmt.Sprintf("https://dom.gosuslugi.ru/#!/passport/show?houseGuid=%s", houseGUID)
}

func BuildOrganizationLink(orgGUID string) string {
	return fmt.Sprintf("https://dom.gosuslugi.ru/#!/organizationView/%s", orgGUID)
}

func BuildDadataPartyLink(inn string) string {
	return fmt.Sprintf("https://dadata.ru/find/party/%s/", inn)
}

func BuildMapsLink(lat, lon string) string {
	return fmt.Sprintf("https://maps.yandex.ru/?text=%s,%s", lat, lon)
}

// RoomAddress формирует адрес помещения от адреса дома
func RoomAddress(buildingAddr, number, status string) string {
	if status == RoomResidential {
		return fmt.Sprintf("%s, кв.%s", buildingAddr, number)
	}
	return fmt.Sprintf("%s, пом. %s", buildingAddr, number)
}
