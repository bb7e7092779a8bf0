package services

import (
	"fmt"
	"strings"
	"time"

	"garasi/internal/core"
)

const (
	reportTitle      = "Laporan Keuangan Garasi Sumber Jaya"
	reportRule       = "========================================="
	reportSubRule    = "-----------------------------------------"
	reportFilePrefix = "Laporan_Garasi_Sumber_Jaya_"
)

// BuildReport renders the monthly financial report as plain text.
// The output is a pure function of the collections and now, so two
// generations from the same state are byte-identical.
func BuildReport(customers []core.Customer, expenses []core.Expense, now time.Time) string {
	summary := BuildSummary(customers, expenses, now)
	monthExpenses := MonthExpenses(expenses, now)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", reportTitle)
	fmt.Fprintf(&b, "Bulan: %s\n", core.FormatMonthYear(now))
	fmt.Fprintf(&b, "%s\n\n", reportRule)

	b.WriteString("RINGKASAN KEUANGAN\n")
	fmt.Fprintf(&b, "%s\n", reportSubRule)
	fmt.Fprintf(&b, "Pendapatan Kotor: %s\n", summary.GrossRevenue)
	fmt.Fprintf(&b, "Total Pengeluaran: %s\n", summary.MonthExpenses)
	fmt.Fprintf(&b, "Pendapatan Bersih: %s\n\n", summary.NetRevenue)

	b.WriteString("DETAIL PENDAPATAN (CUSTOMER AKTIF)\n")
	fmt.Fprintf(&b, "%s\n", reportSubRule)
	if len(customers) > 0 {
		for _, c := range customers {
			fmt.Fprintf(&b, "- %s (Room %d): %s\n", c.Nama, c.RoomNumber, c.Harga)
		}
	} else {
		b.WriteString("Tidak ada customer aktif.\n")
	}
	b.WriteString("\n")

	b.WriteString("DETAIL PENGELUARAN BULAN INI\n")
	fmt.Fprintf(&b, "%s\n", reportSubRule)
	if len(monthExpenses) > 0 {
		for _, e := range monthExpenses {
			fmt.Fprintf(&b, "- %s: %s - %s\n", core.FormatDate(e.Tanggal), e.Deskripsi, e.Harga)
		}
	} else {
		b.WriteString("Tidak ada pengeluaran bulan ini.\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s\n", reportRule)
	fmt.Fprintf(&b, "Laporan dibuat pada: %s\n", core.FormatDate(now))

	return b.String()
}

// ReportFilename names the download artifact with the generation date:
// Laporan_Garasi_Sumber_Jaya_20240320.txt.
func ReportFilename(now time.Time) string {
	return reportFilePrefix + now.Format("20060102") + ".txt"
}
