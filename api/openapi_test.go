package api_test

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/recruitment-performance/api"
)

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		var err error
		doc, err = openapi3.NewLoader().LoadFromData(api.Spec)
		Expect(err).NotTo(HaveOccurred())
	})

	It("is a valid document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	DescribeTable("describes the routes the server mounts",
		func(path, method string) {
			item := doc.Paths.Find(path)
			Expect(item).NotTo(BeNil(), path)
			Expect(item.GetOperation(method)).NotTo(BeNil(), method+" "+path)
		},
		Entry("record activity", "/api/v1/activities", "POST"),
		Entry("list activity", "/api/v1/activities", "GET"),
		Entry("score", "/api/v1/scores", "GET"),
		Entry("leaderboard", "/api/v1/teams/{id}/leaderboard", "GET"),
		Entry("client health", "/api/v1/client-health", "GET"),
		Entry("aging", "/api/v1/aging", "GET"),
		Entry("create dropout", "/api/v1/dropout-requests", "POST"),
		Entry("acknowledge dropout", "/api/v1/dropout-requests/{id}/acknowledge", "PUT"),
		Entry("decide dropout", "/api/v1/dropout-requests/{id}/decide", "PUT"),
	)
})
