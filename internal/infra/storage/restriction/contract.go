package restriction

import "github.com/m04kA/SMC-RestrictionService/pkg/dbmetrics"

// Переиспользуем интерфейс из dbmetrics: репозиторий работает и с *dbmetrics.DB, и с транзакцией
type DBExecutor = dbmetrics.DBExecutor
