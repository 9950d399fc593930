package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/player --output domain/player --outpkg playermock --filename source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name AdviceGateway --dir ../usecase --output usecase --outpkg usecasemock --filename advice_gateway_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name CandidatePool --dir ../usecase --output usecase --outpkg usecasemock --filename candidate_pool_mock.go
