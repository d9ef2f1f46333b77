package response_test

import (
	"github.com/PhucHuuDang/GraphQL/pkg/repository"
	"github.com/PhucHuuDang/GraphQL/pkg/response"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	IsDeleted bool   `json:"isDeleted"`
}

type signOutResult struct {
	Success bool `json:"success"`
}

var (
	query      = response.Operation{Name: "posts", Type: response.Query}
	auto       = response.Meta{}
	asEnvelope = func(v interface{}) *response.Envelope {
		env, ok := v.(*response.Envelope)
		Expect(ok).To(BeTrue(), "expected *response.Envelope, got %T", v)
		return env
	}
)

var _ = Describe("Normalize", func() {
	Context("with a null result", func() {
		It("reports that no data was found", func() {
			env := asEnvelope(response.Normalize(nil, auto, query))
			Expect(env.Success).To(BeFalse())
			Expect(env.Message).To(Equal("No data found"))
			Expect(env.Data).To(BeNil())
		})

		It("treats typed nil pointers as null", func() {
			var p *post
			env := asEnvelope(response.Normalize(p, response.Meta{Kind: response.KindSingle}, query))
			Expect(env.Success).To(BeFalse())
		})
	})

	Context("with values that are already envelopes", func() {
		It("passes an Envelope through unchanged", func() {
			in := &response.Envelope{Success: false, Message: "custom"}
			Expect(response.Normalize(in, auto, query)).To(BeIdenticalTo(in))
		})

		It("passes any value with a boolean success field through", func() {
			in := signOutResult{Success: true}
			Expect(response.Normalize(in, response.Meta{Kind: response.KindSingle}, query)).To(Equal(in))

			m := map[string]interface{}{"success": false}
			Expect(response.Normalize(m, auto, query)).To(Equal(m))
		})
	})

	Context("with raw metadata", func() {
		It("returns the value untouched", func() {
			in := map[string]interface{}{"url": "https://github.com", "redirect": true}
			Expect(response.Normalize(in, response.Meta{Kind: response.KindRaw}, query)).To(Equal(in))
		})
	})

	Context("with a bare array and no metadata", func() {
		It("wraps it with a count", func() {
			in := []map[string]interface{}{{"id": 1}, {"id": 2}}
			env := asEnvelope(response.Normalize(in, auto, query))
			Expect(env.Success).To(BeTrue())
			Expect(env.Data).To(Equal(in))
			Expect(*env.Count).To(Equal(2))
			Expect(env.Message).To(Equal("Data retrieved successfully"))
		})

		It("counts empty slices as zero", func() {
			env := asEnvelope(response.Normalize([]post{}, auto, query))
			Expect(env.Success).To(BeTrue())
			Expect(*env.Count).To(Equal(0))
		})
	})

	Context("with paginated results", func() {
		It("recognises repository pages", func() {
			page := &repository.Page[post]{
				Data: []post{{ID: "1"}},
				Meta: repository.NewMeta(11, 1, 10),
			}
			env := asEnvelope(response.Normalize(page, auto, query))
			Expect(env.Data).To(Equal([]post{{ID: "1"}}))
			Expect(env.Meta).To(Equal(repository.NewMeta(11, 1, 10)))
			Expect(env.Count).To(BeNil())
		})

		It("recognises the data/meta shape structurally", func() {
			in := map[string]interface{}{
				"data": []interface{}{"a"},
				"meta": map[string]interface{}{"total": 1, "page": 1},
			}
			env := asEnvelope(response.Normalize(in, auto, query))
			Expect(env.Data).To(Equal([]interface{}{"a"}))
			Expect(env.Meta).To(HaveKeyWithValue("total", 1))
		})
	})

	Context("with bulk results", func() {
		It("reports count and affected ids", func() {
			in := &repository.BulkResult{Count: 2, AffectedIDs: []string{"a", "b"}}
			op := response.Operation{Name: "createCategories", Type: response.Mutation}
			env := asEnvelope(response.Normalize(in, auto, op))
			Expect(*env.Count).To(Equal(2))
			Expect(env.AffectedIDs).To(Equal([]string{"a", "b"}))
			Expect(env.Data).To(BeNil())
			Expect(env.Message).To(Equal("Resource created successfully"))
		})

		It("sniffs a numeric count without data", func() {
			env := asEnvelope(response.Normalize(map[string]interface{}{"count": 3}, auto, query))
			Expect(*env.Count).To(Equal(3))
			Expect(env.AffectedIDs).To(BeEmpty())
		})
	})

	Context("with deletions", func() {
		It("uses the operation name", func() {
			op := response.Operation{Name: "deletePost", Type: response.Mutation}
			env := asEnvelope(response.Normalize(&post{ID: "p1"}, auto, op))
			Expect(env.DeletedID).To(Equal("p1"))
			Expect(env.Data).To(BeNil())
			Expect(env.Message).To(Equal("Resource deleted successfully"))
		})

		It("sniffs an isDeleted field", func() {
			env := asEnvelope(response.Normalize(post{ID: "p2", IsDeleted: true}, auto, query))
			Expect(env.DeletedID).To(Equal("p2"))
		})

		It("falls back to _id and deletedId keys", func() {
			env := asEnvelope(response.Normalize(map[string]interface{}{"_id": "x"}, response.Meta{Kind: response.KindDelete}, query))
			Expect(env.DeletedID).To(Equal("x"))

			env = asEnvelope(response.Normalize(map[string]interface{}{"deletedId": "y"}, response.Meta{Kind: response.KindDelete}, query))
			Expect(env.DeletedID).To(Equal("y"))
		})
	})

	Context("with declared metadata", func() {
		It("lets the declared kind win over sniffing", func() {
			env := asEnvelope(response.Normalize(post{ID: "p3", IsDeleted: true}, response.Meta{Kind: response.KindSingle}, query))
			Expect(env.DeletedID).To(BeEmpty())
			Expect(env.Data).To(Equal(post{ID: "p3", IsDeleted: true}))
		})

		It("wraps a single value when an array is declared", func() {
			env := asEnvelope(response.Normalize("one", response.Meta{Kind: response.KindArray}, query))
			Expect(*env.Count).To(Equal(1))
		})

		It("uses the declared message", func() {
			env := asEnvelope(response.Normalize(post{ID: "p"}, response.Meta{Kind: response.KindSingle, Message: "Post fetched"}, query))
			Expect(env.Message).To(Equal("Post fetched"))
		})
	})

	Context("with scalar values", func() {
		It("wraps them as data", func() {
			env := asEnvelope(response.Normalize(42, auto, response.Operation{Name: "incrementViews", Type: response.Mutation}))
			Expect(env.Data).To(Equal(42))
			Expect(env.Message).To(Equal("Operation completed successfully"))
		})
	})
})

var _ = DescribeTable("DefaultMessage",
	func(name string, opType response.OperationType, want string) {
		Expect(response.DefaultMessage(response.Operation{Name: name, Type: opType})).To(Equal(want))
	},
	Entry("create mutation", "createPost", response.Mutation, "Resource created successfully"),
	Entry("update mutation", "updateProfile", response.Mutation, "Resource updated successfully"),
	Entry("delete mutation", "deletePost", response.Mutation, "Resource deleted successfully"),
	Entry("other mutation", "signInEmail", response.Mutation, "Operation completed successfully"),
	Entry("query", "posts", response.Query, "Data retrieved successfully"),
	Entry("query named like a mutation", "createdPosts", response.Query, "Data retrieved successfully"),
)
