package repository

import (
	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportDashboardToCSV(data entity.DashboardData, currency entity.Currency, filename string, outputDir string) (string, error)
	ExportDashboardToJSON(data entity.DashboardData, filename string, outputDir string) (string, error)
	ExportDashboardToPDF(data entity.DashboardData, currency entity.Currency, filename string, outputDir string) (string, error)
}
