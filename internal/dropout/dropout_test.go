package dropout_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/dropout"
	"github.com/frahmantamala/recruitment-performance/internal/scoring"
)

func strPtr(s string) *string { return &s }

var _ = Describe("State", func() {
	DescribeTable("transitions",
		func(from, to dropout.State, allowed bool) {
			Expect(from.CanTransitionTo(to)).To(Equal(allowed))
		},
		Entry("pending_rm to pending_am", dropout.StatePendingRM, dropout.StatePendingAM, true),
		Entry("pending_am to accepted", dropout.StatePendingAM, dropout.StateAccepted, true),
		Entry("pending_am to ignored", dropout.StatePendingAM, dropout.StateIgnored, true),
		Entry("pending_rm cannot skip to accepted", dropout.StatePendingRM, dropout.StateAccepted, false),
		Entry("pending_rm cannot skip to ignored", dropout.StatePendingRM, dropout.StateIgnored, false),
		Entry("pending_am cannot regress", dropout.StatePendingAM, dropout.StatePendingRM, false),
		Entry("accepted is terminal", dropout.StateAccepted, dropout.StateIgnored, false),
		Entry("ignored is terminal", dropout.StateIgnored, dropout.StateAccepted, false),
		Entry("accepted cannot be accepted again", dropout.StateAccepted, dropout.StateAccepted, false),
	)

	It("classifies open and terminal states", func() {
		Expect(dropout.StatePendingRM.IsOpen()).To(BeTrue())
		Expect(dropout.StatePendingAM.IsOpen()).To(BeTrue())
		Expect(dropout.StateAccepted.IsTerminal()).To(BeTrue())
		Expect(dropout.StateIgnored.IsTerminal()).To(BeTrue())
		Expect(dropout.State("reopened").IsValid()).To(BeFalse())
	})
})

var _ = Describe("Request", func() {
	now := time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)

	It("acknowledges from pending_rm only", func() {
		req := &dropout.Request{ID: 1, State: dropout.StatePendingRM}
		Expect(req.Acknowledge(2, strPtr("checked"), now)).To(Succeed())
		Expect(req.State).To(Equal(dropout.StatePendingAM))
		Expect(*req.RMNotes).To(Equal("checked"))
		Expect(*req.RMAcknowledgedAt).To(Equal(now))

		err := req.Acknowledge(2, nil, now)
		Expect(internal.IsErrorType(err, internal.ErrorTypeInvalidState)).To(BeTrue())
		Expect(*req.RMNotes).To(Equal("checked"))
	})

	It("raises a penalty only for accepted requests", func() {
		accepted := &dropout.Request{ID: 1, RecruiterID: 7, RoleID: 3, State: dropout.StatePendingAM}
		Expect(accepted.Decide(4, dropout.DecisionAccept, strPtr("lost"), now)).To(Succeed())
		Expect(*accepted.Decision).To(Equal("accepted"))

		p := accepted.Penalty()
		Expect(p).NotTo(BeNil())
		Expect(p.Points).To(Equal(scoring.PenaltyPoints))
		Expect(p.RecruiterID).To(Equal(int64(7)))
		Expect(p.EffectiveAt).To(Equal(now))

		ignored := &dropout.Request{ID: 2, State: dropout.StatePendingAM}
		Expect(ignored.Decide(4, dropout.DecisionIgnore, strPtr("dropout"), now)).To(Succeed())
		Expect(ignored.State).To(Equal(dropout.StateIgnored))
		Expect(ignored.Penalty()).To(BeNil())
	})

	It("refuses to decide before the recruitment manager acknowledged", func() {
		req := &dropout.Request{ID: 1, State: dropout.StatePendingRM}
		err := req.Decide(4, dropout.DecisionAccept, strPtr("lost"), now)
		Expect(internal.IsErrorType(err, internal.ErrorTypeInvalidState)).To(BeTrue())
		Expect(req.State).To(Equal(dropout.StatePendingRM))
		Expect(req.DecidedAt).To(BeNil())
	})
})

var _ = Describe("DTO validation", func() {
	It("requires a reason on create", func() {
		err := dropout.CreateDropoutDTO{RoleID: 1, Reason: "  "}.Validate()
		Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())
		Expect(dropout.CreateDropoutDTO{RoleID: 1, Reason: "candidate accepted a counter offer"}.Validate()).To(Succeed())
	})

	DescribeTable("decide payloads",
		func(dto dropout.DecideDTO, valid bool) {
			err := dto.Validate()
			if valid {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())
			}
		},
		Entry("accept with status", dropout.DecideDTO{Decision: "accept", NewRoleStatus: strPtr("lost")}, true),
		Entry("accept with any known status", dropout.DecideDTO{Decision: "accept", NewRoleStatus: strPtr("open")}, true),
		Entry("accept without status", dropout.DecideDTO{Decision: "accept"}, false),
		Entry("accept with blank status", dropout.DecideDTO{Decision: "accept", NewRoleStatus: strPtr("")}, false),
		Entry("accept with unknown status", dropout.DecideDTO{Decision: "accept", NewRoleStatus: strPtr("archived")}, false),
		Entry("ignore without status", dropout.DecideDTO{Decision: "ignore"}, true),
		Entry("ignore with dropout status", dropout.DecideDTO{Decision: "ignore", NewRoleStatus: strPtr("dropout")}, true),
		Entry("unknown decision", dropout.DecideDTO{Decision: "approve"}, false),
		Entry("missing decision", dropout.DecideDTO{}, false),
	)
})
