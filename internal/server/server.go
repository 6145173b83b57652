package server

// Данный сервер просто объединяет специфичные HTTP сервера, отвечающие за обработку конкретных сущностей
type Server struct {
	ValuationServer
}

func NewServer(
	valuationServer ValuationServer,
) Server {
	return Server{
		ValuationServer: valuationServer,
	}
}
