package utils

import "time"

// StartOfDay retorna a meia-noite do dia civil do instante no fuso informado
func StartOfDay(t time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	local := t.In(location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
}

// EndOfDay retorna o último instante do dia civil do instante no fuso informado
func EndOfDay(t time.Time, location *time.Location) time.Time {
	return StartOfDay(t, location).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// GenerateDateRange gera um slice de dias entre startDate e endDate (inclusive), normalizados para meia-noite
func GenerateDateRange(startDate, endDate time.Time) []time.Time {
	currentDate := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	endDateTime := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, endDate.Location())

	if currentDate.After(endDateTime) {
		return []time.Time{}
	}

	var dates []time.Time
	for !currentDate.After(endDateTime) {
		dates = append(dates, currentDate)
		currentDate = currentDate.AddDate(0, 0, 1)
	}

	return dates
}
